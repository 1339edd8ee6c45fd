package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/thiremani/cfront/compiler"
	"github.com/thiremani/cfront/interp"
	"github.com/thiremani/cfront/llvmgen"
	"tinygo.org/x/go-llvm"
)

// collectSources expands each argument into .c files: a directory
// contributes the .c files directly inside it. Files are grouped by their
// directory, which names the package.
func collectSources(args []string) (map[string][]string, error) {
	groups := map[string][]string{}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", arg)
		}
		if !info.IsDir() {
			if !strings.HasSuffix(arg, C_SUFFIX) {
				return nil, errors.Errorf("%s is not a %s file", arg, C_SUFFIX)
			}
			dir := filepath.Dir(arg)
			groups[dir] = append(groups[dir], arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "read directory %s", arg)
		}
		for _, entry := range entries {
			// TODO compile within subdirectories too
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), C_SUFFIX) {
				continue
			}
			groups[arg] = append(groups[arg], filepath.Join(arg, entry.Name()))
		}
	}
	return groups, nil
}

// compileFile runs the front end on one file and writes the requested
// outputs into pkgDir.
func compileFile(cfg Config, srcFile, pkgDir string) error {
	source, err := os.ReadFile(srcFile)
	if err != nil {
		return errors.Wrapf(err, "read %s", srcFile)
	}

	unit, err := compiler.CompileSource(srcFile, string(source))
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(srcFile), C_SUFFIX)
	if cfg.emitTacky() {
		if _, err := writeOutput(pkgDir, stem+TACKY_SUFFIX, unit.IR.String()); err != nil {
			return err
		}
	}
	if cfg.emitLLVM() {
		ctx := llvm.NewContext()
		defer ctx.Dispose()
		mod, err := llvmgen.Generate(ctx, stem, unit.IR, unit.Table)
		if err != nil {
			return errors.Wrapf(err, "generate LLVM for %s", srcFile)
		}
		_, err = writeOutput(pkgDir, stem+IR_SUFFIX, mod.String())
		mod.Dispose()
		if err != nil {
			return err
		}
	}

	if cfg.Run {
		if _, ok := unit.IR.Function("main"); !ok {
			return nil
		}
		result, err := interp.Run(unit.IR, unit.Table)
		if err != nil {
			return errors.Wrapf(err, "run %s", srcFile)
		}
		fmt.Printf("%s: main returned %d\n", srcFile, result.Int64())
	}
	return nil
}

// compilePackage compiles every file of one package under the package's
// cache lock. It reports how many files failed.
func compilePackage(cfg Config, dir string, files []string) int {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	pkg := filepath.Base(absDir)
	pkgDir := filepath.Join(cfg.Cache, pkg)

	unlock, err := lockPackageDir(pkgDir)
	if err != nil {
		fmt.Printf("⚠️ %s: %v\n", pkg, err)
		return len(files)
	}
	defer unlock()

	removeStaleOutputs(pkgDir, files)

	failed := 0
	for _, file := range files {
		if err := compileFile(cfg, file, pkgDir); err != nil {
			fmt.Printf("⚠️ %v\n", err)
			failed++
			continue
		}
		fmt.Printf("✅ Successfully compiled %s\n", file)
	}
	return failed
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-version") {
		printVersion()
		return
	}
	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current working directory: %v\n", err)
			os.Exit(1)
		}
		args = []string{cwd}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using CCACHE: %s\n", cfg.Cache)

	groups, err := collectSources(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	failed := 0
	for _, dir := range dirs {
		failed += compilePackage(cfg, dir, groups[dir])
	}
	if failed > 0 {
		os.Exit(1)
	}
}
