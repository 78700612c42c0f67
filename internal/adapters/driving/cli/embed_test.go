package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedCmd_SweepReportsCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	training := trainingService.(*mockTraining)
	m, err := training.AddMaterial(context.Background(), "CBT Basics", "content", nil)
	require.NoError(t, err)
	_, err = training.ProcessMaterial(context.Background(), m.ID)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"embed", "--all"})
	defer func() {
		rootCmd.SetArgs(nil)
		embedAll = false
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Embedded 1 material(s).")
}

func TestEmbedCmd_SingleMaterial(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	training := trainingService.(*mockTraining)
	m, err := training.AddMaterial(context.Background(), "CBT Basics", "content", nil)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"embed", m.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotNil(t, training.materials[m.ID].Embedding)
}

func TestEmbedCmd_RequiresIDOrAll(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"embed"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "pass a material ID or --all")
}
