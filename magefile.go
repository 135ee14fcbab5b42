//go:build mage
// +build mage

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"golang.org/x/sync/errgroup"
)

const (
	binDir      = "bin"
	tmpDir      = "tmp"
	coverFile   = "coverage.out"
	mockAddr    = ":5000"
	mockPass    = "admin123"
	defaultMock = "http://localhost" + mockAddr
)

// binaries built by Build, keyed by output name.
var binaries = map[string]string{
	"lafelle-web":         "./cmd/web",
	"lafelle-mockcatalog": "./cmd/tools/mockcatalog",
	"lafelle-createtable": "./cmd/tools/createtable",
}

var Default = Dev

// Dev runs the web app with air when available, else go run.
func Dev() error {
	if _, err := exec.LookPath("air"); err == nil {
		fmt.Println("Starting hot-reload with air ...")
		return sh.RunV("air")
	}
	fmt.Println("air not found, falling back to `go run ./cmd/web` (install with: mage Tools)")
	return Run()
}

func Run() error {
	return sh.RunV("go", "run", "./cmd/web")
}

// Mock serves the seeded in-memory catalog API on :5000.
func Mock() error {
	return sh.RunWithV(mockEnv(), "go", "run", "./cmd/tools/mockcatalog", "-addr", mockAddr)
}

// Stack runs the mock catalog and the web app against it until Ctrl-C.
func Stack() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runCtx(ctx, mockEnv(), "go", "run", "./cmd/tools/mockcatalog", "-addr", mockAddr)
	})
	g.Go(func() error {
		env := map[string]string{"CATALOG_API_URL": defaultMock, "SESSION_DRIVER": "memory"}
		if os.Getenv("SESSION_SECRET") == "" {
			env["SESSION_SECRET"] = "dev-only-session-secret"
		}
		return runCtx(ctx, env, "go", "run", "./cmd/web")
	})
	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// CreateTable creates the admin_sessions table in DB_DSN.
func CreateTable() error {
	return sh.RunV("go", "run", "./cmd/tools/createtable")
}

// Build compiles every command into bin/.
func Build() error {
	mg.Deps(Tidy)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	env := map[string]string{"CGO_ENABLED": "0"}
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name+exeSuffix())
		fmt.Println("Building:", out)
		if err := sh.RunWithV(env, "go", "build", "-trimpath", "-o", out, pkg); err != nil {
			return err
		}
	}
	return nil
}

func Test() error {
	return sh.RunV("go", "test", "./...", "-count=1")
}

func TestRace() error {
	if runtime.GOOS == "windows" {
		fmt.Println("Note: -race on Windows depends on a cgo toolchain.")
	}
	return sh.RunV("go", "test", "./...", "-race", "-count=1")
}

// Cover writes coverage.out and prints the per-function summary.
func Cover() error {
	if err := sh.RunV("go", "test", "./...", "-count=1", "-coverprofile="+coverFile); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverFile)
}

func Fmt() error {
	return sh.RunV("gofmt", "-w", "./cmd", "./internal", "./pkg", "./magefile.go")
}

func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		return errors.New("golangci-lint not found, install with: mage Tools")
	}
	return sh.RunV("golangci-lint", "run", "--timeout=3m", "./...")
}

func Check() error {
	mg.Deps(Fmt, Lint, Test)
	fmt.Println("Check OK.")
	return nil
}

func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

func Clean() error {
	for _, p := range []string{binDir, tmpDir, coverFile} {
		_ = os.RemoveAll(p)
	}
	return nil
}

// Tools installs air and golangci-lint (v2).
func Tools() error {
	for _, pkg := range []string{
		"github.com/air-verse/air@latest",
		"github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest",
	} {
		if err := sh.RunV("go", "install", pkg); err != nil {
			return err
		}
	}
	fmt.Println("Tools installed. Ensure GOBIN/GOPATH/bin is in PATH.")
	return nil
}

func mockEnv() map[string]string {
	if os.Getenv("MOCK_ADMIN_PASSWORD") != "" {
		return nil
	}
	return map[string]string{"MOCK_ADMIN_PASSWORD": mockPass}
}

func runCtx(ctx context.Context, env map[string]string, cmd string, args ...string) error {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdout, c.Stderr = os.Stdout, os.Stderr
	c.Env = os.Environ()
	for k, v := range env {
		c.Env = append(c.Env, k+"="+v)
	}
	return c.Run()
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
