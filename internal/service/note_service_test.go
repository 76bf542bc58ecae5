package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"technotes/internal/errors"
	"technotes/internal/model"
)

func TestNoteService_CreateNote(t *testing.T) {
	ownerID := uuid.New()

	t.Run("successful creation", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID, Username: "alice"}, nil)
		mockNoteRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Note")).Return(nil)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.CreateNote(context.Background(), "t1", "body", ownerID)

		assert.NoError(t, err)
		assert.Equal(t, "t1", note.Title)
		assert.Equal(t, ownerID, note.UserID)
		assert.False(t, note.Completed)
		mockNoteRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("duplicate title", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(&model.Note{Title: "t1"}, nil)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		note, err := svc.CreateNote(context.Background(), "t1", "body", ownerID)

		assert.Equal(t, errors.ErrNoteExists, err)
		assert.Nil(t, note)
		mockNoteRepo.AssertExpectations(t)
	})

	t.Run("owner does not exist", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByID", mock.Anything, ownerID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.CreateNote(context.Background(), "t1", "body", ownerID)

		assert.Equal(t, errors.ErrUserNotFound, err)
		assert.Nil(t, note)
		mockNoteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index rejects concurrent duplicate", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID}, nil)
		mockNoteRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Note")).Return(gorm.ErrDuplicatedKey)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.CreateNote(context.Background(), "t1", "body", ownerID)

		assert.Equal(t, errors.ErrNoteExists, err)
		assert.Nil(t, note)
	})

	t.Run("store failure surfaces as internal error", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID}, nil)
		mockNoteRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Note")).Return(gorm.ErrInvalidTransaction)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.CreateNote(context.Background(), "t1", "body", ownerID)

		assert.Error(t, err)
		assert.Nil(t, note)
		assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)
		assert.Equal(t, http.StatusInternalServerError, errors.MapErrorToHTTP(err).StatusCode)
	})
}

func TestNoteService_UpdateNote(t *testing.T) {
	noteID := uuid.New()
	otherNoteID := uuid.New()
	ownerID := uuid.New()

	t.Run("note not found", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		note, err := svc.UpdateNote(context.Background(), noteID, "t1", "body", ownerID, true)

		assert.Equal(t, errors.ErrNoteNotFound, err)
		assert.Nil(t, note)
	})

	t.Run("title held by different note", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(&model.Note{ID: noteID, Title: "old"}, nil)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(&model.Note{ID: otherNoteID, Title: "t1"}, nil)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		note, err := svc.UpdateNote(context.Background(), noteID, "t1", "body", ownerID, true)

		assert.Equal(t, errors.ErrNoteTitleTaken, err)
		assert.Nil(t, note)
	})

	t.Run("keeping own title is not a conflict", func(t *testing.T) {
		stored := &model.Note{ID: noteID, Title: "t1", Text: "old", UserID: ownerID}
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(stored, nil)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(stored, nil)
		mockUserRepo.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID}, nil)
		mockNoteRepo.On("Save", mock.Anything, stored).Return(nil)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.UpdateNote(context.Background(), noteID, "t1", "new body", ownerID, true)

		assert.NoError(t, err)
		assert.Equal(t, "new body", note.Text)
		assert.True(t, note.Completed)
		mockNoteRepo.AssertExpectations(t)
	})

	t.Run("owner does not exist", func(t *testing.T) {
		unknownOwner := uuid.New()
		stored := &model.Note{ID: noteID, Title: "t1", UserID: ownerID}
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(stored, nil)
		mockNoteRepo.On("FindByTitle", mock.Anything, "t1").Return(stored, nil)
		mockUserRepo.On("FindByID", mock.Anything, unknownOwner).Return(nil, gorm.ErrRecordNotFound)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		note, err := svc.UpdateNote(context.Background(), noteID, "t1", "body", unknownOwner, true)

		assert.Equal(t, errors.ErrUserNotFound, err)
		assert.Nil(t, note)
		// The stored owner reference is untouched when the new owner is unknown.
		assert.Equal(t, ownerID, stored.UserID)
		mockNoteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestNoteService_DeleteNote(t *testing.T) {
	noteID := uuid.New()

	t.Run("note not found", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		note, err := svc.DeleteNote(context.Background(), noteID)

		assert.Equal(t, errors.ErrNoteNotFound, err)
		assert.Nil(t, note)
	})

	t.Run("successful deletion", func(t *testing.T) {
		stored := &model.Note{ID: noteID, Title: "t1"}
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("FindByID", mock.Anything, noteID).Return(stored, nil)
		mockNoteRepo.On("Delete", mock.Anything, stored).Return(nil)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		note, err := svc.DeleteNote(context.Background(), noteID)

		assert.NoError(t, err)
		assert.Equal(t, "t1", note.Title)
		mockNoteRepo.AssertExpectations(t)
	})
}

func TestNoteService_ListNotes(t *testing.T) {
	aliceID := uuid.New()
	bobID := uuid.New()

	t.Run("denormalizes owner usernames", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("List", mock.Anything).Return([]model.Note{
			{Title: "t1", UserID: aliceID},
			{Title: "t2", UserID: bobID},
		}, nil)
		mockUserRepo.On("FindByID", mock.Anything, aliceID).Return(&model.User{ID: aliceID, Username: "alice"}, nil)
		mockUserRepo.On("FindByID", mock.Anything, bobID).Return(&model.User{ID: bobID, Username: "bob"}, nil)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		notes, err := svc.ListNotes(context.Background())

		assert.NoError(t, err)
		assert.Len(t, notes, 2)
		byTitle := map[string]string{}
		for _, n := range notes {
			byTitle[n.Title] = n.Username
		}
		assert.Equal(t, "alice", byTitle["t1"])
		assert.Equal(t, "bob", byTitle["t2"])
	})

	t.Run("missing owner does not abort the list", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockUserRepo := new(MockUserRepository)
		mockNoteRepo.On("List", mock.Anything).Return([]model.Note{
			{Title: "t1", UserID: aliceID},
			{Title: "orphan", UserID: bobID},
		}, nil)
		mockUserRepo.On("FindByID", mock.Anything, aliceID).Return(&model.User{ID: aliceID, Username: "alice"}, nil)
		mockUserRepo.On("FindByID", mock.Anything, bobID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewNoteService(mockNoteRepo, mockUserRepo, nil)
		notes, err := svc.ListNotes(context.Background())

		assert.NoError(t, err)
		assert.Len(t, notes, 2)
		byTitle := map[string]string{}
		for _, n := range notes {
			byTitle[n.Title] = n.Username
		}
		assert.Equal(t, "alice", byTitle["t1"])
		assert.Equal(t, "", byTitle["orphan"])
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		mockNoteRepo := new(MockNoteRepository)
		mockNoteRepo.On("List", mock.Anything).Return([]model.Note{}, nil)

		svc := NewNoteService(mockNoteRepo, new(MockUserRepository), nil)
		notes, err := svc.ListNotes(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})
}
