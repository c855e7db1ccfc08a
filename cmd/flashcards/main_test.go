package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashcards/internal/logger"
	"github.com/conorfennell/flashcards/internal/storage"
)

// run executes the CLI against the collection at path.
func run(t *testing.T, path, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runApp(t, path, stdin, args...)
	return out, err
}

// runApp is run that also returns the app, for checks on its state after exit.
func runApp(t *testing.T, path, stdin string, args ...string) (string, *app, error) {
	t.Helper()
	cmd, a := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--storage.path", path, "--log.mode", "production"}, args...))
	err := execute(cmd, a)
	return out.String(), a, err
}

func loadCards(t *testing.T, path string) int {
	t.Helper()
	s, err := storage.Open("", path, logger.Nop())
	require.NoError(t, err)
	defer s.Close()
	return len(s.Load())
}

func TestAddListShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")

	out, err := run(t, path, "", "add", "Sepsis", "Lactato y SOFA", "qSOFA en urgencias")
	require.NoError(t, err)
	assert.Contains(t, out, "Added card")
	assert.Contains(t, out, "Cuidados Críticos")
	assert.Equal(t, 1, loadCards(t, path))

	_, err = run(t, path, "", "add", "ECG en hiperkalemia", "Ondas T picudas")
	require.NoError(t, err)

	out, err = run(t, path, "", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ECG en hiperkalemia")
	assert.Contains(t, lines[1], "Sepsis")

	out, err = run(t, path, "", "list", "--tag", "Cardiología")
	require.NoError(t, err)
	assert.NotContains(t, out, "Sepsis")

	out, err = run(t, path, "", "search", "lactato")
	require.NoError(t, err)
	assert.Contains(t, out, "Sepsis")
	assert.NotContains(t, out, "ECG")

	out, err = run(t, path, "", "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "Cardiología (1)")
}

func TestAddRejectsBlankFront(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	_, err := run(t, path, "", "add", " ", "back")
	assert.Error(t, err)
	assert.Equal(t, 0, loadCards(t, path))
}

func TestEditReviewDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")
	_, err := run(t, path, "", "add", "MELD-Na", "Mortalidad a 90 días")
	require.NoError(t, err)

	s, err := storage.Open("", path, logger.Nop())
	require.NoError(t, err)
	id := s.Load()[0].ID
	require.NoError(t, s.Close())

	out, err := run(t, path, "", "edit", id[:6], "--notes", "Bilirrubina, INR, creatinina, sodio")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes:    Bilirrubina")

	_, err = run(t, path, "", "edit", id)
	assert.ErrorIs(t, err, errNothingToDo)

	out, err = run(t, path, "", "review", id, "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Next review in 1 day(s)")

	_, err = run(t, path, "", "review", id, "7")
	assert.Error(t, err)

	out, err = run(t, path, "", "history", id)
	require.NoError(t, err)
	assert.Contains(t, out, "quality 5")

	out, err = run(t, path, "", "due")
	require.NoError(t, err)
	assert.Contains(t, out, "No cards due.")

	_, err = run(t, path, "", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, 0, loadCards(t, path))

	_, err = run(t, path, "", "show", id)
	assert.Error(t, err)
}

func TestHistoryNeedsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	_, err := run(t, path, "", "add", "q", "a")
	require.NoError(t, err)
	_, err = run(t, path, "", "history", "x")
	assert.ErrorContains(t, err, "sqlite")
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	src := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(src, []byte("Sepsis\tLactato\n\tsin frente\nqSOFA\tTres criterios\n"), 0o644))

	out, err := run(t, path, "", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 card(s).")
	assert.Contains(t, out, "line 2")

	out, err = run(t, path, "Q: MELD-Na\nA: Mortalidad\n", "import", "--format", "md", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 card(s).")
	assert.Equal(t, 3, loadCards(t, path))

	out, err = run(t, path, "", "export")
	require.NoError(t, err)
	assert.Equal(t, "MELD-Na\tMortalidad\t\nSepsis\tLactato\t\nqSOFA\tTres criterios\t\n", out)
}

func TestScanAndSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	notes := filepath.Join(dir, "notes")
	require.NoError(t, os.MkdirAll(notes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "a.md"), []byte("Q: one\nA: uno\n---\nQ: two\nA: dos\n"), 0o644))

	out, err := run(t, path, "", "scan", notes)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 card(s)")

	out, err = run(t, path, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 25 card(s).")
	assert.Equal(t, 27, loadCards(t, path))
}

func TestStudy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	for _, args := range [][]string{
		{"add", "uno", "one"},
		{"add", "dos", "two"},
		{"add", "tres", "three"},
	} {
		_, err := run(t, path, "", args...)
		require.NoError(t, err)
	}

	// tres: grade 5; dos: bad input then grade 3; uno: skip (last card ends the session).
	out, err := run(t, path, "\n5\n\nx\n3\n\ns\n", "study")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/3] tres")
	assert.Contains(t, out, "Enter a number from 0 to 5.")
	assert.Contains(t, out, "Reviewed 2 card(s).")

	out, err = run(t, path, "", "due")
	require.NoError(t, err)
	assert.Contains(t, out, "uno")
	assert.NotContains(t, out, "tres")

	out, err = run(t, path, "q\n", "study", "--all")
	require.NoError(t, err)
	assert.NotContains(t, out, "Reviewed")

	out, err = run(t, filepath.Join(t.TempDir(), "empty.json"), "", "study")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to study.")
}

func TestStoreClosedAfterFailedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")
	_, err := run(t, path, "", "add", "MELD-Na", "Mortalidad a 90 días")
	require.NoError(t, err)

	s, err := storage.OpenSQLite(path, logger.Nop())
	require.NoError(t, err)
	id := s.Load()[0].ID
	require.NoError(t, s.Close())

	_, a, err := runApp(t, path, "", "review", id, "9")
	require.Error(t, err)
	assert.Nil(t, a.store, "store released after a failing command")

	_, a, err = runApp(t, path, "", "show", id)
	require.NoError(t, err)
	assert.Nil(t, a.store)

	// Config errors happen before the store is opened.
	_, _, err = runApp(t, path, "", "--storage.backend", "csv", "list")
	assert.Error(t, err)
}
