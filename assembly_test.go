package relmk

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/relmk/header"
	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/props"
	"git.fractalqb.de/fractalqb/relmk/publish"
	"git.fractalqb.de/fractalqb/relmk/release"
	"git.fractalqb.de/fractalqb/testerr"
	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

func armoredTestKey(t *testing.T) string {
	e := testerr.F1(openpgp.NewEntity("Release Test", "", "release@example.org", nil)).ShallBeNil(t)
	var buf bytes.Buffer
	w := testerr.F1(armor.Encode(&buf, openpgp.PrivateKeyType, nil)).ShallBeNil(t)
	testerr.F0(e.SerializePrivate(w, nil)).ShallBeNil(t)
	testerr.F0(w.Close()).ShallBeNil(t)
	return buf.String()
}

type uploads struct {
	sync.Mutex
	paths map[string]bool
}

func (u *uploads) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	u.Lock()
	defer u.Unlock()
	if u.paths == nil {
		u.paths = make(map[string]bool)
	}
	u.paths[r.URL.Path] = true
	w.WriteHeader(http.StatusCreated)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testerr.F0(os.MkdirAll(filepath.Dir(path), 0777)).ShallBeNil(t)
	testerr.F0(os.WriteFile(path, []byte(content), 0644)).ShallBeNil(t)
}

func newBuilder(t *testing.T, env *mkcore.Env) (*mkcore.Builder, *bytes.Buffer) {
	var out bytes.Buffer
	tr := &WriteTracer{W: &out, Log: mkcore.TraceWarn | mkcore.TraceInfo}
	bd := testerr.F1(mkcore.NewBuilder(mkcore.NewTrace(context.Background(), tr), env)).ShallBeNil(t)
	return bd, &out
}

func TestRelease(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0.jar"), "jar")
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0.pom"), "<project/>")
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0.jar.asc"), "stale signature")
	stale := time.Now().Add(-time.Hour)
	testerr.F0(os.Chtimes(filepath.Join(dir, "dist", "lib-1.0.jar.asc"), stale, stale)).ShallBeNil(t)
	writeFile(t, filepath.Join(dir, "signing.key"), armoredTestKey(t))
	writeFile(t, filepath.Join(dir, header.DefaultFile), "${name} by ${organization} <${url}>")
	writeFile(t, filepath.Join(dir, "src", "Main.java"), "class Main {}\n")

	var ups uploads
	srv := httptest.NewServer(&ups)
	defer srv.Close()

	names := release.DefaultNames()
	ps := props.New("test", map[string]string{
		names.KeyLocator:    "signing.key",
		names.KeyPassphrase: "",
		names.Repository:    srv.URL + "/releases",
		"organization":      "MaldLoader",
		"projectUrl":        "https://maldloader.com",
	})
	rel := &Release{
		Dir:       dir,
		Coords:    publish.Coordinates{Group: "org.example", Artifact: "lib", Version: "1.0"},
		Props:     ps,
		Names:     names,
		LocalRepo: filepath.Join(dir, "m2"),
	}
	env := mkcore.DefaultEnv(ps)
	prj := testerr.F1(rel.Project(env)).ShallBeNil(t)
	if d := testerr.F1(rel.Resolver().Signing()).ShallBeNil(t); d.String() != "in-memory key from file "+filepath.Join(dir, "signing.key") {
		t.Errorf("decision %s", d)
	}
	for _, g := range []string{GoalSign, GoalChecksums, GoalPublishLocal, GoalPublish, GoalCheckLicense, GoalRelease} {
		if prj.FindGoal(g) == nil {
			t.Errorf("no goal %s", g)
		}
	}

	bd, out := newBuilder(t, env)
	if err := bd.NamedGoals(prj, GoalRelease); err == nil || !strings.Contains(err.Error(), "src/Main.java") {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	testerr.F0(bd.NamedGoals(prj, GoalApplyLicense)).ShallBeNil(t)
	src := testerr.F1(os.ReadFile(filepath.Join(dir, "src", "Main.java"))).ShallBeNil(t)
	if !strings.HasPrefix(string(src), "/*\n * lib by MaldLoader <https://maldloader.com>\n */\n") {
		t.Errorf("license header:\n%s", src)
	}
	testerr.F0(bd.NamedGoals(prj, GoalRelease)).ShallBeNil(t)
	t.Log(out)

	versionDir := filepath.Join(dir, "m2", "org", "example", "lib", "1.0")
	for _, f := range []string{"lib-1.0.jar", "lib-1.0.jar.asc", "lib-1.0.jar.sha512", "lib-1.0.pom.md5"} {
		testerr.F1(os.Stat(filepath.Join(versionDir, f))).ShallBeNil(t)
		if !ups.paths["/releases/org/example/lib/1.0/"+f] {
			t.Errorf("%s not uploaded", f)
		}
	}
	if ups.paths["/releases/org/example/lib/1.0/lib-1.0.jar.asc.asc"] {
		t.Error("signature signed")
	}
	sig := testerr.F1(os.ReadFile(filepath.Join(dir, "dist", "lib-1.0.jar.asc"))).ShallBeNil(t)
	if !strings.HasPrefix(string(sig), "-----BEGIN PGP SIGNATURE-----") {
		t.Errorf("signature not renewed: %s", sig)
	}

	testerr.F0(mkcore.Clean(prj, false, bd.Trace())).ShallBeNil(t)
	if _, err := os.Stat(filepath.Join(dir, "dist", "lib-1.0.jar.asc")); !os.IsNotExist(err) {
		t.Error("signature not cleaned")
	}
	testerr.F1(os.Stat(filepath.Join(dir, "dist", "lib-1.0.jar"))).ShallBeNil(t)
}

func TestRelease_noCredentials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0-SNAPSHOT.jar"), "jar")
	rel := &Release{
		Dir:       dir,
		Coords:    publish.Coordinates{Group: "org.example", Artifact: "lib", Version: "1.0-SNAPSHOT"},
		Names:     release.DefaultNames(),
		LocalRepo: filepath.Join(dir, "m2"),
	}
	env := mkcore.DefaultEnv(nil)
	env.DryRun = true
	prj := testerr.F1(rel.Project(env)).ShallBeNil(t)
	d := testerr.F1(rel.Resolver().Signing()).ShallBeNil(t)
	if a, ok := d.(release.ExternalAgent); !ok || !a.Batch {
		t.Errorf("decision %#v", d)
	}
	if n := rel.Resolver().Targets().Bindings(); n != 0 {
		t.Errorf("%d target bindings", n)
	}
	for _, g := range []string{GoalPublish, GoalCheckLicense} {
		if prj.FindGoal(g) != nil {
			t.Errorf("unexpected goal %s", g)
		}
	}
	for _, g := range []string{"dist/lib-1.0-SNAPSHOT.pom", "dist/lib-1.0-SNAPSHOT.pom.asc"} {
		if prj.FindGoal(g) == nil {
			t.Errorf("no goal %s for generated POM", g)
		}
	}
	bd, out := newBuilder(t, env)
	testerr.F0(bd.NamedGoals(prj, GoalRelease)).ShallBeNil(t)
	if !strings.Contains(out.String(), "dry-run (sign with gpg --batch --no-tty --pinentry-mode error") {
		t.Errorf("no dry run of external agent:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "m2")); !os.IsNotExist(err) {
		t.Error("dry run published")
	}
}

func TestRelease_missingHeaderProps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "x.jar"), "jar")
	writeFile(t, filepath.Join(dir, header.DefaultFile), "${name} ${organization} ${url}")
	rel := &Release{
		Dir:       dir,
		Coords:    publish.Coordinates{Group: "g", Artifact: "x", Version: "1"},
		Names:     release.DefaultNames(),
		LocalRepo: filepath.Join(dir, "m2"),
	}
	_, err := rel.Project(mkcore.DefaultEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "'organization'") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRelease_unusableLiteralKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0.jar"), "jar")
	writeFile(t, filepath.Join(dir, header.DefaultFile), "${name} by ${organization}")
	writeFile(t, filepath.Join(dir, "src", "Main.java"), "/*\n * lib by MaldLoader\n */\nclass Main {}\n")
	names := release.DefaultNames()
	ps := props.New("test", map[string]string{
		names.KeyLocator:    "not-a-real-path",
		names.KeyPassphrase: "p",
		"organization":      "MaldLoader",
		"projectUrl":        "https://maldloader.com",
	})
	rel := &Release{
		Dir:       dir,
		Coords:    publish.Coordinates{Group: "org.example", Artifact: "lib", Version: "1.0"},
		Props:     ps,
		Names:     names,
		LocalRepo: filepath.Join(dir, "m2"),
	}
	env := mkcore.DefaultEnv(ps)
	prj := testerr.F1(rel.Project(env)).ShallBeNil(t)
	if d := testerr.F1(rel.Resolver().Signing()).ShallBeNil(t); d.String() != "in-memory key from property" {
		t.Errorf("decision %s", d)
	}
	var dot bytes.Buffer
	testerr.F1(prj.WriteDot(&dot)).ShallBeNil(t)

	bd, out := newBuilder(t, env)
	testerr.F0(bd.NamedGoals(prj, GoalCheckLicense)).ShallBeNil(t)
	err := bd.NamedGoals(prj, GoalSign)
	if err == nil || !strings.Contains(err.Error(), "key property") {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "lib-1.0.jar.asc")); !os.IsNotExist(err) {
		t.Error("signature written with unusable key")
	}
}

func TestRelease_generatedPOM(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "lib-1.0.jar"), "jar")
	writeFile(t, filepath.Join(dir, "signing.key"), armoredTestKey(t))
	names := release.DefaultNames()
	ps := props.New("test", map[string]string{
		names.KeyLocator:         "signing.key",
		names.KeyPassphrase:      "",
		publish.PropOrganization: "MaldLoader",
		publish.PropProjectURL:   "https://maldloader.com",
		publish.PropLicenseName:  "MIT License",
	})
	rel := &Release{
		Dir:       dir,
		Coords:    publish.Coordinates{Group: "org.example", Artifact: "lib", Version: "1.0"},
		Props:     ps,
		Names:     names,
		LocalRepo: filepath.Join(dir, "m2"),
	}
	env := mkcore.DefaultEnv(ps)
	prj := testerr.F1(rel.Project(env)).ShallBeNil(t)
	bd, out := newBuilder(t, env)
	testerr.F0(bd.NamedGoals(prj, GoalRelease)).ShallBeNil(t)
	t.Log(out)

	versionDir := filepath.Join(dir, "m2", "org", "example", "lib", "1.0")
	pom := testerr.F1(os.ReadFile(filepath.Join(versionDir, "lib-1.0.pom"))).ShallBeNil(t)
	for _, s := range []string{"<name>MaldLoader</name>", "<url>https://maldloader.com</url>", "<name>MIT License</name>"} {
		if !strings.Contains(string(pom), s) {
			t.Errorf("no %s in POM:\n%s", s, pom)
		}
	}
	testerr.F1(os.Stat(filepath.Join(versionDir, "lib-1.0.pom.asc"))).ShallBeNil(t)
	testerr.F1(os.Stat(filepath.Join(versionDir, "lib-1.0.pom.sha1"))).ShallBeNil(t)

	testerr.F0(mkcore.Clean(prj, false, bd.Trace())).ShallBeNil(t)
	if _, err := os.Stat(filepath.Join(dir, "dist", "lib-1.0.pom")); !os.IsNotExist(err) {
		t.Error("generated POM not cleaned")
	}
}
