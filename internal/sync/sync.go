// Package sync reconciles configured note sources against the database.
// Each markdown file in a source becomes a note run through the analysis
// pipeline; files are matched to existing notes by content hash, and notes
// whose file disappeared are removed.
package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/studydeck/studydeck/internal/digest"
	"github.com/studydeck/studydeck/internal/gitsource"
	"github.com/studydeck/studydeck/internal/service"
	"github.com/studydeck/studydeck/internal/storage"
)

// Runner walks note sources and keeps stored notes in step with them.
type Runner struct {
	db       *storage.DB
	svc      *service.Service
	reposDir string
}

// NewRunner creates a Runner that checks out git sources under reposDir.
func NewRunner(db *storage.DB, svc *service.Service, reposDir string) *Runner {
	return &Runner{db: db, svc: svc, reposDir: reposDir}
}

// Run reconciles every configured source.
func (r *Runner) Run() error {
	slog.Info("starting sync for all sources")
	sources, err := r.db.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("no sources configured")
		return nil
	}

	if err := os.MkdirAll(r.reposDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		dir := source.Path
		if source.Type == "git" {
			localPath, err := gitURLToLocalPath(r.reposDir, source.Path)
			if err != nil {
				slog.Error("cannot determine local path for git source", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				continue
			}
			dir = localPath
		}

		r.reconcile(source.ID, dir)
	}
	slog.Info("sync complete")
	return nil
}

// reconcile walks one source directory, creating notes for unseen files and
// deleting notes whose backing file is gone.
func (r *Runner) reconcile(sourceID int64, dir string) {
	foundHashes := make(map[string]bool)
	var created, skipped int

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read note file", "path", path, "error", err)
			return nil
		}
		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		hash := digest.Hash(string(content))
		foundHashes[hash] = true

		existing, err := r.db.FindNoteByHash(hash)
		if err != nil {
			slog.Warn("failed to check note hash", "path", path, "error", err)
			return nil
		}
		if existing != nil {
			skipped++
			return nil
		}

		note, err := r.svc.CreateNoteFromSource(string(content), sourceID)
		if err != nil {
			slog.Warn("failed to create note from file", "path", path, "error", err)
			return nil
		}
		if _, err := r.svc.GenerateFlashcards(note.ID, note.KeyPoints); err != nil {
			slog.Warn("failed to generate flashcards for synced note", "note", note.ID, "error", err)
		}
		created++
		return nil
	})
	if walkErr != nil {
		slog.Error("failed to walk source directory", "path", dir, "error", walkErr)
		return
	}

	dbNotes, err := r.db.GetNotesBySourceID(sourceID)
	if err != nil {
		slog.Error("failed to get notes for source", "source_id", sourceID, "error", err)
		return
	}

	var orphaned int
	for _, note := range dbNotes {
		if foundHashes[note.ContentHash] {
			continue
		}
		orphaned++
		if err := r.db.DeleteNote(note.ID); err != nil {
			slog.Warn("failed to delete orphaned note", "note", note.ID, "error", err)
		}
	}

	if err := r.db.UpdateSourceLastScanned(sourceID); err != nil {
		slog.Warn("failed to update last scanned", "source_id", sourceID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", dir,
		"created", created,
		"unchanged", skipped,
		"orphaned_deleted", orphaned,
	)
}

// SourceType infers whether a path names a git repository or a local
// directory.
func SourceType(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return "git"
	}
	return "local"
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-style git@host:owner/repo.git addresses
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
