package sign

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/release"
)

// Properties that configure the external agent.
const (
	PropGnupgExecutable = "signing.gnupg.executable"
	PropGnupgKeyName    = "signing.gnupg.keyName"
	PropGnupgHomeDir    = "signing.gnupg.homeDir"
)

const DefaultGnupgExecutable = "gpg"

// Agent signs by running the gpg executable. Key selection and unlocking is
// left to gpg and its agent.
type Agent struct {
	Exe     string
	KeyName string
	HomeDir string

	// Batch runs gpg without terminal and makes pinentry fail instead of
	// prompting for a passphrase.
	Batch bool

	// Err receives the diagnostic output of gpg. If nil, the output is only
	// used for error messages.
	Err io.Writer
}

var _ Signer = (*Agent)(nil)

// NewAgent configures an agent for decision a from the properties in env.
func NewAgent(a release.ExternalAgent, env *mkcore.Env) *Agent {
	ag := &Agent{Exe: DefaultGnupgExecutable, Batch: a.Batch}
	if exe, ok := env.Prop(PropGnupgExecutable); ok && exe != "" {
		ag.Exe = exe
	}
	ag.KeyName, _ = env.Prop(PropGnupgKeyName)
	ag.HomeDir, _ = env.Prop(PropGnupgHomeDir)
	if env != nil {
		ag.Err = env.Err
	}
	return ag
}

func (ag *Agent) Args() []string {
	var args []string
	if ag.Batch {
		args = append(args, "--batch", "--no-tty", "--pinentry-mode", "error")
	}
	if ag.HomeDir != "" {
		args = append(args, "--homedir", ag.HomeDir)
	}
	if ag.KeyName != "" {
		args = append(args, "--local-user", ag.KeyName)
	}
	return append(args, "--yes", "--armor", "--detach-sign", "--output", "-")
}

func (ag *Agent) String() string {
	return ag.Exe + " " + strings.Join(ag.Args(), " ")
}

func (ag *Agent) Sign(ctx context.Context, sig io.Writer, data io.Reader) error {
	cmd := exec.CommandContext(ctx, ag.Exe, ag.Args()...)
	cmd.Stdin = data
	cmd.Stdout = sig
	var diag bytes.Buffer
	if ag.Err == nil {
		cmd.Stderr = &diag
	} else {
		cmd.Stderr = io.MultiWriter(&diag, mkcore.NewPrefixWriter(ag.Err, ag.Exe+": "))
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(diag.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", ag.Exe, err, msg)
		}
		return fmt.Errorf("%s: %w", ag.Exe, err)
	}
	return nil
}
