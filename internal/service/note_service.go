package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"technotes/internal/cache"
	"technotes/internal/errors"
	"technotes/internal/model"
	"technotes/internal/repository"
)

// NoteWithUser is a note with the owning user's username denormalized
// onto its JSON representation.
type NoteWithUser struct {
	model.Note
	Username string `json:"username"`
}

// NoteService exposes note domain operations.
type NoteService interface {
	ListNotes(ctx context.Context) ([]NoteWithUser, error)
	CreateNote(ctx context.Context, title, text string, userID uuid.UUID) (*model.Note, error)
	UpdateNote(ctx context.Context, id uuid.UUID, title, text string, userID uuid.UUID, completed bool) (*model.Note, error)
	DeleteNote(ctx context.Context, id uuid.UUID) (*model.Note, error)
}

type noteService struct {
	noteRepo repository.NoteRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewNoteService builds a NoteService with repositories and cache.
func NewNoteService(noteRepo repository.NoteRepository, userRepo repository.UserRepository, cache *cache.Client) NoteService {
	return &noteService{
		noteRepo: noteRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

// ownerUsername resolves the owning user's username, going through the
// cache first. A missing owner yields an empty username, not an error.
func (s *noteService) ownerUsername(ctx context.Context, userID uuid.UUID) (string, error) {
	if data, _ := s.cache.Get(ctx, cache.UserKey(userID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.Username, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("find note owner: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, cache.UserKey(userID), payload, cache.UserTTL)
	}
	return user.Username, nil
}

// ListNotes returns all notes with owner usernames attached. Owner
// lookups run concurrently, one per note.
func (s *noteService) ListNotes(ctx context.Context) ([]NoteWithUser, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	result := make([]NoteWithUser, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	for i, note := range notes {
		g.Go(func() error {
			username, err := s.ownerUsername(gctx, note.UserID)
			if err != nil {
				return err
			}
			result[i] = NoteWithUser{Note: note, Username: username}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateNote creates a note after checking the title is free and the
// owner exists.
func (s *noteService) CreateNote(ctx context.Context, title, text string, userID uuid.UUID) (*model.Note, error) {
	// Check for duplicates
	duplicate, err := s.noteRepo.FindByTitle(ctx, title)
	if err == nil && duplicate != nil {
		return nil, errors.ErrNoteExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check title: %w", err)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find note owner: %w", err)
	}

	note := &model.Note{
		Title:  title,
		Text:   text,
		UserID: userID,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrNoteExists
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// UpdateNote overwrites title, text, owner and completed. The title
// duplicate check excludes the note being updated.
func (s *noteService) UpdateNote(ctx context.Context, id uuid.UUID, title, text string, userID uuid.UUID, completed bool) (*model.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}

	duplicate, err := s.noteRepo.FindByTitle(ctx, title)
	if err == nil && duplicate != nil && duplicate.ID != id {
		return nil, errors.ErrNoteTitleTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check title: %w", err)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find note owner: %w", err)
	}

	note.Title = title
	note.Text = text
	note.UserID = userID
	note.Completed = completed

	if err := s.noteRepo.Save(ctx, note); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrNoteTitleTaken
		}
		return nil, fmt.Errorf("save note: %w", err)
	}

	return note, nil
}

// DeleteNote removes a note by id.
func (s *noteService) DeleteNote(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}

	if err := s.noteRepo.Delete(ctx, note); err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}

	return note, nil
}
