//go:build ignore

// build.go - license engine build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, licensectl, web-licensed, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003"

var (
	distDir = "dist"

	// Executables built by "all" (key = cmd directory, value = output name)
	executables = map[string]string{
		"licensectl":   "licensectl",
		"web-licensed": "elyousr-license-server",
	}

	// Platforms built by "release"
	releasePlatforms = []struct{ goos, goarch string }{
		{"windows", "amd64"},
		{"darwin", "arm64"},
		{"darwin", "amd64"},
		{"linux", "amd64"},
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	startTime := time.Now()

	switch *target {
	case "all":
		buildAll(runtime.GOOS, runtime.GOARCH, *verbose)
	case "licensectl", "web-licensed":
		buildExecutable(*target, runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		buildRelease(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func buildAll(goos, goarch string, verbose bool) {
	printInfo(fmt.Sprintf("Building all executables for %s/%s...", goos, goarch))
	for name := range executables {
		buildExecutable(name, goos, goarch, verbose)
	}
}

func buildExecutable(name, goos, goarch string, verbose bool) {
	exeName, ok := executables[name]
	if !ok {
		printError(fmt.Sprintf("Unknown executable: %s", name))
		os.Exit(1)
	}
	if goos == "windows" {
		exeName += ".exe"
	}

	outputPath := filepath.Join(distDir, goos+"_"+goarch, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+goos, "GOARCH="+goarch)
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, sizeMB))
	}
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		printWarning("git commit unavailable, using \"unknown\"")
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func buildRelease(verbose bool) {
	printInfo("Building release...")
	clean()
	for _, p := range releasePlatforms {
		buildAll(p.goos, p.goarch, verbose)
	}
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all           Build licensectl and the web server for this platform (default)")
	fmt.Println("  licensectl    Build the CLI only")
	fmt.Println("  web-licensed  Build the HTTP server only")
	fmt.Println("  test          Run all Go tests with the race detector")
	fmt.Println("  clean         Remove the dist directory")
	fmt.Println("  release       Build every executable for every release platform")
}
