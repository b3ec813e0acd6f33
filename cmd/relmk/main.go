// Command relmk signs, checksums and publishes the files of a release.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"git.fractalqb.de/fractalqb/relmk"
	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/props"
	"git.fractalqb.de/fractalqb/relmk/publish"
	"git.fractalqb.de/fractalqb/relmk/release"
	"github.com/spf13/pflag"
)

type config struct {
	dir       string
	overrides []string
	propsFile string
	envFile   string
	envPrefix string
	namesFile string
	dist      string
	coords    publish.Coordinates
	localRepo string
	trace     string
	dryRun    bool
	clean     bool
	dot       bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relmk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	flagSet := pflag.NewFlagSet("relmk", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.dir, "chdir", "C", ".", "project root directory")
	flagSet.StringArrayVarP(&cfg.overrides, "prop", "P", nil, "set property key=value (repeatable)")
	flagSet.StringVar(&cfg.propsFile, "props", "", "project properties file (default: <dir>/gradle.properties)")
	flagSet.StringVar(&cfg.envFile, "env-file", "", "dotenv file with additional properties")
	flagSet.StringVar(&cfg.envPrefix, "env-prefix", props.DefaultEnvPrefix, "prefix of environment variables taken as properties")
	flagSet.StringVar(&cfg.namesFile, "names", "", "YAML file with the property names to use")
	flagSet.StringVar(&cfg.dist, "dist", relmk.DefaultDist, "directory with the files to release")
	flagSet.StringVar(&cfg.coords.Group, "group", "", "group ID (default: property group)")
	flagSet.StringVar(&cfg.coords.Artifact, "artifact", "", "artifact ID (default: property artifactId)")
	flagSet.StringVar(&cfg.coords.Version, "version", "", "release version (default: property version)")
	flagSet.StringVar(&cfg.localRepo, "local-repo", "", "local repository directory (default: ~/.m2/repository)")
	flagSet.StringVar(&cfg.trace, "trace", "warn", "trace level: off, warn, info or debug")
	flagSet.BoolVarP(&cfg.dryRun, "dry-run", "n", false, "show what would be done without doing it")
	flagSet.BoolVar(&cfg.clean, "clean", false, "remove generated signatures and checksums")
	flagSet.BoolVar(&cfg.dot, "dot", false, "write the build graph in Graphviz dot format to stdout")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	goals := flagSet.Args()
	if len(goals) == 0 {
		goals = []string{relmk.GoalRelease}
	}

	tracer := relmk.DefaultTracer()
	if err := tracer.ParseLogFlag(cfg.trace); err != nil {
		return err
	}
	dir, err := filepath.Abs(cfg.dir)
	if err != nil {
		return err
	}
	ps, err := loadProps(dir, &cfg)
	if err != nil {
		return err
	}
	names := release.DefaultNames()
	if cfg.namesFile != "" {
		if names, err = release.LoadNames(cfg.namesFile); err != nil {
			return err
		}
	}
	coords, err := coordinates(cfg.coords, ps)
	if err != nil {
		return err
	}

	env := mkcore.DefaultEnv(ps)
	env.Log = tracer.Logger(os.Stderr).Logger
	env.DryRun = cfg.dryRun
	rel := relmk.Release{
		Dir:       dir,
		Coords:    coords,
		Dist:      cfg.dist,
		Props:     ps,
		Names:     names,
		LocalRepo: cfg.localRepo,
	}
	prj, err := rel.Project(env)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	trace := mkcore.NewTrace(ctx, tracer)
	switch {
	case cfg.dot:
		_, err := prj.WriteDot(os.Stdout)
		return err
	case cfg.clean:
		return mkcore.Clean(prj, cfg.dryRun, trace)
	}
	builder, err := mkcore.NewBuilder(trace, env)
	if err != nil {
		return err
	}
	return builder.NamedGoals(prj, goals...)
}

func loadProps(dir string, cfg *config) (*props.Set, error) {
	src := props.DefaultSources(dir)
	if cfg.propsFile != "" {
		src.ProjectFile = cfg.propsFile
	}
	src.DotenvFile = cfg.envFile
	src.EnvPrefix = cfg.envPrefix
	src.Overrides = cfg.overrides
	return src.Load()
}

// coordinates fills what the flags left open from the properties group,
// artifactId and version.
func coordinates(c publish.Coordinates, ps *props.Set) (publish.Coordinates, error) {
	fill := func(v *string, key string) {
		if *v == "" {
			*v, _ = ps.Get(key)
		}
	}
	fill(&c.Group, "group")
	fill(&c.Artifact, "artifactId")
	fill(&c.Version, "version")
	if err := c.Validate(); err != nil {
		return c, errors.New("incomplete coordinates, use --group, --artifact and --version: " + err.Error())
	}
	return c, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `relmk signs the files of a release, writes their checksums and
publishes them to the local repository and, when a repository property
is set, to the remote repository.

Signing uses the in-memory key given by the properties spongeSigningKey
and spongeSigningPassword. Without both, gpg is run in batch mode.

Usage:
  relmk [flags] [goal...]

Goals:
  sign, checksums, publishLocal, publish, checkLicense, applyLicense,
  release (default)

Flags:
`)
	flagSet.PrintDefaults()
}
