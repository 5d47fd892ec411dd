// Command seed fills a migrated database with demo users, categories and
// requests. Run the server once first so the schema exists.
package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL is required")
	}
	password := getEnv("SEED_PASSWORD", "password123")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("✅ Connected to database")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now().UTC()
	if err := seedUsers(db, string(hash), now); err != nil {
		log.Fatal(err)
	}
	if err := seedCategories(db, now); err != nil {
		log.Fatal(err)
	}
	if err := seedRequests(db, now); err != nil {
		log.Fatal(err)
	}
	log.Println("✨ Seeding completed successfully!")
}

func seedUsers(db *sql.DB, hash string, now time.Time) error {
	inserted := 0
	for _, u := range users {
		res, err := db.Exec(`
			INSERT INTO users (username, email, name, password_hash, role, phone, department, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8, $8)
			ON CONFLICT (email) DO NOTHING`,
			u.Username, u.Email, u.Name, hash, u.Role, u.Phone, u.Department, now)
		if err != nil {
			log.Printf("❌ Failed to insert user '%s': %v", u.Email, err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	log.Printf("🎉 %d of %d users inserted", inserted, len(users))
	return nil
}

func seedCategories(db *sql.DB, now time.Time) error {
	inserted := 0
	for _, c := range categories {
		res, err := db.Exec(`
			INSERT INTO categories (name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Description, now)
		if err != nil {
			log.Printf("❌ Failed to insert category '%s': %v", c.Name, err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	log.Printf("🎉 %d of %d categories inserted", inserted, len(categories))
	return nil
}

// seedRequests only runs against an empty requests table.
func seedRequests(db *sql.DB, now time.Time) error {
	var existing int
	if err := db.QueryRow("SELECT COUNT(*) FROM requests").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("⏭️ %d requests already present, skipping", existing)
		return nil
	}

	for i, r := range requests {
		created := now.Add(-time.Duration(len(requests)-i) * 24 * time.Hour)
		_, err := db.Exec(`
			INSERT INTO requests (user_id, category_id, title, description, location, urgency, status, anonymous, created_at, updated_at)
			SELECT u.id, c.id, $3, $4, $5, $6, $7, false, $8, $8
			FROM users u LEFT JOIN categories c ON c.name = $2
			WHERE u.email = $1`,
			r.OwnerEmail, r.Category, r.Title, r.Desc, r.Location, r.Urgency, r.Status, created)
		if err != nil {
			log.Printf("❌ Failed to insert request '%s': %v", r.Title, err)
			continue
		}
		log.Printf("✅ Inserted request: %s", r.Title)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
