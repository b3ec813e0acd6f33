package publish

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/relmk/release"
)

// Repository stores files under slash separated paths.
type Repository interface {
	Put(ctx context.Context, path string, r io.Reader, size int64) error
	fmt.Stringer
}

// Local is a repository in the local file system.
type Local struct {
	Dir string
}

var _ Repository = (*Local)(nil)

// DefaultLocalDir is the user's local Maven repository.
func DefaultLocalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

func (l *Local) String() string { return "local:" + l.Dir }

func (l *Local) Put(ctx context.Context, path string, r io.Reader, _ int64) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := filepath.Join(l.Dir, filepath.FromSlash(path))
	if err = os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return err
	}
	w, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			w.Close()
			os.Remove(w.Name())
		}
	}()
	if _, err = io.Copy(w, r); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = os.Chmod(w.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(w.Name(), dst)
}

// Remote is an HTTP repository that accepts uploads with PUT.
type Remote struct {
	Name     string
	URL      *url.URL
	User     string
	Password string
	Client   *http.Client
}

var _ Repository = (*Remote)(nil)

// NewRepository creates the repository for target t. Credentials are taken
// from the properties "<name>Username" and "<name>Password" of the target's
// name and else from the user info of the target URL. Targets with a file URL
// are local repositories.
func NewRepository(t release.Target, p release.Properties) (Repository, error) {
	if t.URL == "" {
		return nil, fmt.Errorf("target '%s' has empty URL", t.Name)
	}
	u, err := url.Parse(t.URL)
	if err != nil {
		return nil, fmt.Errorf("target '%s': %w", t.Name, err)
	}
	switch u.Scheme {
	case "file":
		return &Local{Dir: filepath.FromSlash(u.Path)}, nil
	case "http", "https":
	default:
		return nil, fmt.Errorf("target %s: unsupported URL scheme '%s'", t, u.Scheme)
	}
	rem := &Remote{Name: t.Name, URL: u}
	if u.User != nil {
		rem.User = u.User.Username()
		rem.Password, _ = u.User.Password()
		u.User = nil
	}
	if user, ok := p.Get(t.Name + "Username"); ok {
		rem.User = user
	}
	if pass, ok := p.Get(t.Name + "Password"); ok {
		rem.Password = pass
	}
	return rem, nil
}

func (rem *Remote) String() string { return rem.Name + "@" + rem.URL.Redacted() }

func (rem *Remote) Put(ctx context.Context, path string, r io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rem.URL.JoinPath(path).String(), r)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if rem.User != "" {
		req.SetBasicAuth(rem.User, rem.Password)
	}
	client := rem.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put %s to %s: %s", path, rem, resp.Status)
	}
	return nil
}
