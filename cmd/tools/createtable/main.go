// Command createtable prepares the MySQL session table used when
// SESSION_DRIVER=mysql. With -purge it also drops expired sessions.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lafelle.com/app/internal/modules/sessions"
)

func main() {
	purge := flag.Bool("purge", false, "Delete expired sessions after creating the table")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := sessions.OpenMySQL(dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db handle: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.WithContext(ctx).Exec(sessions.CreateTableSQL).Error; err != nil {
		log.Fatalf("create admin_sessions: %v", err)
	}
	log.Println("admin_sessions ready")

	if *purge {
		n, err := sessions.NewGormStore(db).DeleteExpired(ctx)
		if err != nil {
			log.Fatalf("purge: %v", err)
		}
		log.Printf("purged %d expired sessions", n)
	}
}
