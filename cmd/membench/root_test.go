package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoOptionsPrintsUsageAndFails(t *testing.T) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.ErrorContains(t, err, "at least one option is required")

	usage := out.String()
	require.Contains(t, usage, "membench")
	require.Contains(t, usage, "--cache")
	require.Contains(t, usage, "--benchmark")
}

func TestUnknownOptionFails(t *testing.T) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"-x"})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.ErrorContains(t, err, "unknown shorthand flag")
	require.ErrorContains(t, err, "'x'")
}
