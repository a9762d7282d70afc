// Command nova-new scaffolds a fresh Nova project: a manifest and a
// minimal entry-point source file, per spec.md §6. The manifest shape
// mirrors funxy's project-manifest convention (a TOML file read by the
// toolchain at the project root) narrowed to the fields Nova needs.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/cybellereaper/nova/internal/config"
)

// Manifest is the structure written to nova.toml.
type Manifest struct {
	Project ProjectSection `toml:"project"`
}

type ProjectSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Entry   string `toml:"entry"`
}

const entryTemplate = `module %s.core

fun main(): Unit = ()
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("nova-new", pflag.ContinueOnError)
	projectName := flags.String("name", "", "project name recorded in nova.toml (default: the directory's base name)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: nova-new [--name project-name] <directory>\n")
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	rest := flags.Args()
	if len(rest) != 1 {
		flags.Usage()
		return 2
	}
	dir := rest[0]
	name := *projectName
	if name == "" {
		name = filepath.Base(filepath.Clean(dir))
	}

	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "nova-new: %v\n", err)
		return 1
	}

	manifestPath := filepath.Join(dir, config.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		fmt.Fprintf(os.Stderr, "nova-new: %s already exists\n", manifestPath)
		return 1
	}

	manifest := Manifest{Project: ProjectSection{
		Name:    name,
		Version: "0.1.0",
		Entry:   "src/main.nova",
	}}

	manifestFile, err := os.Create(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nova-new: %v\n", err)
		return 1
	}
	defer manifestFile.Close()
	if err := toml.NewEncoder(manifestFile).Encode(manifest); err != nil {
		fmt.Fprintf(os.Stderr, "nova-new: %v\n", err)
		return 1
	}

	entryPath := filepath.Join(dir, "src", "main"+config.SourceFileExt)
	entrySource := fmt.Sprintf(entryTemplate, name)
	if err := os.WriteFile(entryPath, []byte(entrySource), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "nova-new: %v\n", err)
		return 1
	}

	fmt.Printf("created %s (%s, %s)\n", dir, manifestPath, entryPath)
	return 0
}
