package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"technotes/internal/model"
)

// NoteRepository defines note persistence operations.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	Save(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, note *model.Note) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Note, error)
	FindByTitle(ctx context.Context, title string) (*model.Note, error)
	FindFirstByUserID(ctx context.Context, userID uuid.UUID) (*model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository builds a GORM-backed repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) Save(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Delete(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) FindByTitle(ctx context.Context, title string) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// FindFirstByUserID returns any note owned by the user, used to block
// deletion of users that still have assigned notes.
func (r *noteRepository) FindFirstByUserID(ctx context.Context, userID uuid.UUID) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
