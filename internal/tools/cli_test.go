package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/54b3r/awsai-go/internal/cloud"
)

// fakeRunner records the last invocation and returns a canned result.
type fakeRunner struct {
	gotArgs []string
	gotEnv  []string
	result  *RunResult
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, args []string, env []string) (*RunResult, error) {
	f.gotArgs = args
	f.gotEnv = env
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var testCreds = cloud.Credentials{AccessKeyID: "AKIATEST", SecretAccessKey: "s3cr3t", Region: "eu-central-1"}

// lookupEnv returns the last value bound to key in env, mimicking os/exec.
func lookupEnv(env []string, key string) (string, bool) {
	val, found := "", false
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			val, found = v, true
		}
	}
	return val, found
}

func TestCLITool_Run(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "inherited-should-be-overridden")

	runner := &fakeRunner{result: &RunResult{Stdout: `{"Regions": []}`}}
	res := NewCLITool(runner, testCreds).Run(context.Background(), "ec2 describe-regions")

	assertOK(t, res, `{"Regions": []}`)

	if want := []string{"ec2", "describe-regions"}; !slices.Equal(runner.gotArgs, want) {
		t.Errorf("args = %v, want %v", runner.gotArgs, want)
	}

	wantEnv := map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKIATEST",
		"AWS_SECRET_ACCESS_KEY": "s3cr3t",
		"AWS_DEFAULT_REGION":    "eu-central-1",
	}
	for k, want := range wantEnv {
		got, ok := lookupEnv(runner.gotEnv, k)
		if !ok || got != want {
			t.Errorf("env %s = %q (set=%v), want %q", k, got, ok, want)
		}
	}
	if _, ok := lookupEnv(runner.gotEnv, "PATH"); !ok && os.Getenv("PATH") != "" {
		t.Error("process environment was not inherited")
	}
}

func TestCLITool_WhitespaceSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"single", "sts get-caller-identity", []string{"sts", "get-caller-identity"}},
		{"extra spaces", "  s3   ls  ", []string{"s3", "ls"}},
		{"quotes are not interpreted", `s3 ls "my bucket"`, []string{"s3", "ls", `"my`, `bucket"`}},
		{"empty", "", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			runner := &fakeRunner{result: &RunResult{}}
			NewCLITool(runner, testCreds).Run(context.Background(), tc.command)
			if !slices.Equal(runner.gotArgs, tc.want) {
				t.Errorf("args = %q, want %q", runner.gotArgs, tc.want)
			}
		})
	}
}

func TestCLITool_NonZeroExit(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: &RunResult{
		Stdout:   "ignored",
		Stderr:   "An error occurred (AuthFailure) when calling the DescribeRegions operation",
		ExitCode: 254,
	}}
	res := NewCLITool(runner, testCreds).Run(context.Background(), "ec2 describe-regions")

	assertFailed(t, res, KindCommand, "Error", "AuthFailure")
	if strings.Contains(res.String(), "ignored") {
		t.Errorf("stdout leaked into failure text: %q", res.String())
	}

	var exitErr *ExitError
	if !errors.As(res.Err, &exitErr) {
		t.Fatal("failure does not unwrap to *ExitError")
	}
	if exitErr.Code != 254 {
		t.Errorf("ExitError.Code = %d, want 254", exitErr.Code)
	}
}

func TestCLITool_SpawnFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New(`exec: "aws": executable file not found in $PATH`)}
	res := NewCLITool(runner, testCreds).Run(context.Background(), "s3 ls")

	assertFailed(t, res, KindExec, "Error executing AWS command", "executable file not found")
}

func TestCLITool_CallDecodesCommand(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: &RunResult{Stdout: "ok"}}
	res := NewCLITool(runner, testCreds).Call(context.Background(), `{"command":"s3 ls"}`)

	assertOK(t, res, "ok")
	if want := []string{"s3", "ls"}; !slices.Equal(runner.gotArgs, want) {
		t.Errorf("args = %v, want %v", runner.gotArgs, want)
	}
}

// writeFakeAWS writes a shell script standing in for the aws binary. It prints
// its arguments and credential variables, and exits 3 when asked to fail.
func writeFakeAWS(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "aws")
	script := `#!/bin/sh
if [ "$1" = "fail" ]; then
  echo "simulated failure" >&2
  exit 3
fi
echo "args=$*"
echo "key=$AWS_ACCESS_KEY_ID region=$AWS_DEFAULT_REGION"
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecRunner_EndToEnd(t *testing.T) {
	t.Parallel()

	bin := writeFakeAWS(t)
	cli := NewCLITool(NewExecRunner(bin), testCreds)

	res := cli.Run(context.Background(), "ec2 describe-regions")
	assertOK(t, res, "args=ec2 describe-regions", "key=AKIATEST region=eu-central-1")

	res = cli.Run(context.Background(), "fail now")
	assertFailed(t, res, KindCommand, "Error", "simulated failure")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "no-such-aws")
	res := NewCLITool(NewExecRunner(missing), testCreds).Run(context.Background(), "s3 ls")

	assertFailed(t, res, KindExec, "Error executing AWS command", "no-such-aws")
}

func TestNewExecRunner_Default(t *testing.T) {
	t.Parallel()

	if got := NewExecRunner("").Binary(); got != DefaultCLIBinary {
		t.Errorf("Binary() = %q, want %q", got, DefaultCLIBinary)
	}
}
