package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"technotes/internal/config"
	"technotes/internal/db"
	"technotes/internal/model"
	"technotes/internal/repository"
)

var seedUsers = []struct {
	Username string
	Password string
	Roles    model.Roles
}{
	{Username: "admin", Password: "admin123", Roles: model.Roles{"Admin", model.DefaultRole}},
	{Username: "manager", Password: "manager123", Roles: model.Roles{"Manager", model.DefaultRole}},
	{Username: "hank", Password: "hank123", Roles: model.Roles{model.DefaultRole}},
}

var seedNotes = []struct {
	Owner string
	Title string
	Text  string
}{
	{Owner: "hank", Title: "Replace lobby printer", Text: "Front desk printer jams on every second page."},
	{Owner: "hank", Title: "Order toner", Text: "Toner for the repair bay label printer is running low."},
	{Owner: "manager", Title: "Quarterly inventory", Text: "Count repair parts before the end of the quarter."},
}

func main() {
	notesPerUser := flag.Bool("notes", true, "also seed sample notes")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Note{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)

	created, err := seedUserRecords(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", created)

	if *notesPerUser {
		created, err = seedNoteRecords(ctx, userRepo, noteRepo)
		if err != nil {
			log.Fatalf("Failed to seed notes: %v", err)
		}
		log.Printf("Seeded %d notes", created)
	}

	log.Println("Seed script completed")
}

func seedUserRecords(ctx context.Context, userRepo repository.UserRepository) (int, error) {
	count := 0
	for _, item := range seedUsers {
		if _, err := userRepo.FindByUsername(ctx, item.Username); err == nil {
			log.Printf("User %s already exists, skipping", item.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("check user %s: %w", item.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(item.Password), 10)
		if err != nil {
			return count, fmt.Errorf("hash password for %s: %w", item.Username, err)
		}

		user := &model.User{
			Username:     item.Username,
			PasswordHash: string(hashed),
			Roles:        item.Roles,
			Active:       true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return count, fmt.Errorf("create user %s: %w", item.Username, err)
		}
		count++
	}
	return count, nil
}

func seedNoteRecords(ctx context.Context, userRepo repository.UserRepository, noteRepo repository.NoteRepository) (int, error) {
	count := 0
	for _, item := range seedNotes {
		owner, err := userRepo.FindByUsername(ctx, item.Owner)
		if err != nil {
			return count, fmt.Errorf("find owner %s: %w", item.Owner, err)
		}

		if _, err := noteRepo.FindByTitle(ctx, item.Title); err == nil {
			log.Printf("Note %q already exists, skipping", item.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("check note %q: %w", item.Title, err)
		}

		note := &model.Note{
			Title:  item.Title,
			Text:   item.Text,
			UserID: owner.ID,
		}
		if err := noteRepo.Create(ctx, note); err != nil {
			return count, fmt.Errorf("create note %q: %w", item.Title, err)
		}
		count++
	}
	return count, nil
}
