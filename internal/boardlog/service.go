// Package boardlog keeps an audit trail of the idea collection as git
// commits. Each mutation snapshots the serialized collection, so the log
// shows who changed board state and when.
package boardlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"connectideas/api/internal/ideas"
)

const snapshotFile = "ideas.json"

// Commit describes one entry in the board history.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
}

// Service owns the single board history repository.
type Service struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Service {
	return &Service{dir: dir}
}

// Ensure initializes the history repository with an empty-board baseline.
// Safe to call when the repository already exists.
func (s *Service) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(filepath.Join(s.dir, ".git")); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat history repo: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	repo, err := git.PlainInit(s.dir, false)
	if err != nil {
		return fmt.Errorf("init history repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), []byte("[]\n"), 0o644); err != nil {
		return fmt.Errorf("write baseline snapshot: %w", err)
	}
	if _, err := worktree.Add(snapshotFile); err != nil {
		return fmt.Errorf("git add baseline: %w", err)
	}
	hash, err := worktree.Commit("Initialize board history", &git.CommitOptions{
		Author: signature("connect-ideas"),
	})
	if err != nil {
		return fmt.Errorf("commit baseline: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)); err != nil {
		return fmt.Errorf("set main branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return fmt.Errorf("set HEAD to main: %w", err)
	}
	return nil
}

// Snapshot commits the current collection. A snapshot identical to the
// previous one is skipped without error.
func (s *Service) Snapshot(collection []ideas.Idea, message, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return fmt.Errorf("open history repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	if collection == nil {
		collection = []ideas.Idea{}
	}
	payload, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := worktree.Add(snapshotFile); err != nil {
		return fmt.Errorf("git add snapshot: %w", err)
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: signature(author),
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// History lists commits newest first, truncated to limit when positive.
func (s *Service) History(limit int) ([]Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return nil, fmt.Errorf("open history repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]Commit, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, Commit{
			Hash:    commitObj.Hash.String(),
			Message: commitObj.Message,
			Author:  commitObj.Author.Name,
			When:    commitObj.Author.When,
		})
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func signature(author string) *object.Signature {
	if strings.TrimSpace(author) == "" {
		author = "connect-ideas"
	}
	return &object.Signature{
		Name:  author,
		Email: fmt.Sprintf("%s@local.connectideas.dev", sanitizeEmail(author)),
		When:  time.Now(),
	}
}

func sanitizeEmail(author string) string {
	lowered := strings.ToLower(strings.TrimSpace(author))
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '-', r == '_':
			b.WriteByte('.')
		}
	}
	if b.Len() == 0 {
		return "board"
	}
	return b.String()
}
