package git_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianchen24/commitgen/internal/git"
	"github.com/julianchen24/commitgen/tests/repohelper"
)

func runner(repo *repohelper.Repo) *git.Runner {
	return &git.Runner{Dir: repo.Path}
}

func TestRunCapturesOutput(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	stdout, stderr, err := r.Run("rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	require.Equal(t, "main", strings.TrimSpace(stdout))
	require.Empty(t, stderr)
}

func TestRunReturnsStderrOnFailure(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	_, stderr, err := r.Run("rev-parse", "--verify", "nope")
	require.Error(t, err)
	require.NotEmpty(t, stderr)
	require.NotZero(t, git.ExitCode(err))
}

func TestRunQuiet(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	ok, err := r.RunQuiet("rev-parse", "--verify", "HEAD")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.RunQuiet("rev-parse", "--verify", "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveCommit(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	head := repo.Head(t)
	id, err := r.ResolveCommit("HEAD")
	require.NoError(t, err)
	require.Equal(t, head, id)

	_, err = r.ResolveCommit("does-not-exist")
	require.Error(t, err)
}

func TestCommitExists(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	ok, err := r.CommitExists("HEAD")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.CommitExists("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsAncestorOfHead(t *testing.T) {
	repo := repohelper.Init(t)
	first := repo.Head(t)
	repo.CommitFile(t, "a.txt", "a\n", "second")

	repo.MustRun(t, "checkout", "-b", "side", first)
	side := repo.CommitFile(t, "side.txt", "s\n", "side")
	repo.MustRun(t, "checkout", "main")

	r := runner(repo)

	ok, err := r.IsAncestorOfHead(first)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsAncestorOfHead(side)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParentCountAndMergeDetection(t *testing.T) {
	repo := repohelper.Init(t)
	root := repo.Head(t)
	merge := repo.MergeCommit(t, "feature", "feature.txt", "merge feature")

	r := runner(repo)

	n, err := r.ParentCount(root)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = r.ParentCount(merge)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	isMerge, err := r.IsMergeCommit(merge)
	require.NoError(t, err)
	require.True(t, isMerge)

	isMerge, err = r.IsMergeCommit(root)
	require.NoError(t, err)
	require.False(t, isMerge)
}

func TestHasUpstreamAndPushState(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	ok, err := r.HasUpstream()
	require.NoError(t, err)
	require.False(t, ok)

	// Without an upstream no commit counts as pushed.
	pushed, err := r.CommitIsPushed("HEAD")
	require.NoError(t, err)
	require.False(t, pushed)
}

func TestStagedDiff(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	_, err := r.StagedDiff()
	require.Error(t, err, "an empty index has no diff to describe")

	require.NoError(t, repo.WriteFile("a.txt", "hello\n"))
	repo.MustRun(t, "add", "a.txt")

	diff, err := r.StagedDiff()
	require.NoError(t, err)
	require.Contains(t, diff, "+hello")

	files, err := r.StagedFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, files)
}

func TestCommitDiff(t *testing.T) {
	repo := repohelper.Init(t)
	hash := repo.CommitFile(t, "a.txt", "alpha\n", "add alpha")

	r := runner(repo)

	diff, err := r.CommitDiff(hash)
	require.NoError(t, err)
	require.Contains(t, diff, "+alpha")

	_, err = r.CommitDiff("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.Error(t, err)
}

func TestRangeDiff(t *testing.T) {
	repo := repohelper.Init(t)
	older := repo.CommitFile(t, "a.txt", "one\n", "one")
	newer := repo.CommitFile(t, "b.txt", "two\n", "two")

	r := runner(repo)

	diff, err := r.RangeDiff(older, newer)
	require.NoError(t, err)
	require.Contains(t, diff, "+two")
	require.NotContains(t, diff, "+one")
}

func TestCommitAndUndo(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	require.NoError(t, repo.WriteFile("a.txt", "hello\n"))
	repo.MustRun(t, "add", "a.txt")
	require.NoError(t, r.Commit("add hello", nil, true))
	require.Equal(t, "add hello", repo.Message(t, "HEAD"))
	require.Equal(t, 2, repo.CommitCount(t))

	require.NoError(t, r.UndoLastCommitSoft(true))
	require.Equal(t, 1, repo.CommitCount(t))

	// The undone changes stay staged.
	files, err := r.StagedFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, files)
}

func TestAmendMessage(t *testing.T) {
	repo := repohelper.Init(t)
	tree := repo.TreeHash(t, "HEAD")

	r := runner(repo)
	require.NoError(t, r.AmendMessage("reworded", true))

	require.Equal(t, "reworded", repo.Message(t, "HEAD"))
	require.Equal(t, tree, repo.TreeHash(t, "HEAD"))
}

func TestCurrentBranchAndRepoRoot(t *testing.T) {
	repo := repohelper.Init(t)
	r := runner(repo)

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "main", branch)

	root, err := r.RepoRoot()
	require.NoError(t, err)
	require.NotEmpty(t, root)
}
