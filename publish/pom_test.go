package publish

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestNewPOM(t *testing.T) {
	coords := Coordinates{"com.maldloader", "maldgradle", "1.0"}
	pom := NewPOM(coords, propMap{
		PropOrganization: "MaldLoader",
		PropProjectURL:   "https://maldloader.com",
		PropLicenseName:  "MIT License",
		PropLicenseURL:   "https://opensource.org/licenses/MIT",
		PropScmURL:       "https://github.com/MaldLoader/MaldGradle",
	})
	data := testerr.F1(pom.Marshal()).ShallBeNil(t)
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Errorf("no XML header:\n%s", data)
	}
	var back POM
	testerr.F0(xml.Unmarshal(data, &back)).ShallBeNil(t)
	if back.GroupID != "com.maldloader" || back.ArtifactID != "maldgradle" || back.Version != "1.0" {
		t.Errorf("coordinates %s:%s:%s", back.GroupID, back.ArtifactID, back.Version)
	}
	if back.Organization == nil || back.Organization.URL != "https://maldloader.com" {
		t.Errorf("organization %+v", back.Organization)
	}
	if len(back.Licenses) != 1 || back.Licenses[0].Name != "MIT License" {
		t.Errorf("licenses %+v", back.Licenses)
	}
	if back.Scm == nil || back.Scm.URL != "https://github.com/MaldLoader/MaldGradle" {
		t.Errorf("scm %+v", back.Scm)
	}

	bare := testerr.F1(NewPOM(coords, propMap{}).Marshal()).ShallBeNil(t)
	for _, elem := range []string{"<organization>", "<licenses>", "<scm>", "<url>"} {
		if strings.Contains(string(bare), elem) {
			t.Errorf("empty %s in\n%s", elem, bare)
		}
	}
}

func TestPOMOp_keepsUnchanged(t *testing.T) {
	dir := t.TempDir()
	prj := mkcore.NewProject(dir)
	coords := Coordinates{"org.example", "lib", "1.0"}
	f := mkfs.File(coords.POMName())
	g := testerr.F1(prj.Goal(f)).ShallBeNil(t)
	testerr.F1(prj.NewAction(nil, []*mkcore.Goal{g}, POMOp{POM: NewPOM(coords, propMap{})})).ShallBeNil(t)

	bd := testerr.F1(mkcore.NewBuilder(mkcore.NewTrace(context.Background(), nil), nil)).ShallBeNil(t)
	testerr.F0(bd.Goals(g)).ShallBeNil(t)
	path := filepath.Join(dir, "lib-1.0.pom")
	data := testerr.F1(os.ReadFile(path)).ShallBeNil(t)
	if !strings.Contains(string(data), "<artifactId>lib</artifactId>") {
		t.Errorf("POM:\n%s", data)
	}

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	testerr.F0(os.Chtimes(path, old, old)).ShallBeNil(t)
	testerr.F0(bd.Goals(g)).ShallBeNil(t)
	st := testerr.F1(os.Stat(path)).ShallBeNil(t)
	if !st.ModTime().Equal(old) {
		t.Errorf("unchanged POM rewritten at %s", st.ModTime())
	}
}
