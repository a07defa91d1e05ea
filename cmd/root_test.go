package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"districts", "locate", "distance", "reconcile", "boundary", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "districtviz", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("boundary"))
}

func TestBoundaryCommand_HasImport(t *testing.T) {
	var found bool
	for _, c := range boundaryCmd.Commands() {
		if c.Name() == "import" {
			found = true
		}
	}
	assert.True(t, found)

	flag := boundaryImportCmd.Flags().Lookup("to")
	require.NotNil(t, flag)
	assert.Equal(t, "sqlite", flag.DefValue)
}

func TestLocateCommand_Flags(t *testing.T) {
	for _, name := range []string{"lat", "lng"} {
		assert.NotNil(t, locateCmd.Flags().Lookup(name), "locate should have --%s", name)
	}
}

func TestReconcileCommand_Flags(t *testing.T) {
	for _, name := range []string{"column", "metric", "top", "out-dir", "format", "no-clean"} {
		assert.NotNil(t, reconcileCmd.Flags().Lookup(name), "reconcile should have --%s", name)
	}
	assert.Equal(t, "10", reconcileCmd.Flags().Lookup("top").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestDistanceCommand_Args(t *testing.T) {
	assert.Error(t, distanceCmd.Args(distanceCmd, []string{"Hyderabad"}))
	assert.NoError(t, distanceCmd.Args(distanceCmd, []string{"Hyderabad", "Nalgonda"}))
}
