package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Table and column names are shared by both dialects; only types and
// auto-increment syntax differ.  Ticket coordinates are seat_row and
// seat_number because ROW is reserved in MySQL 8.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		username VARCHAR(150) NOT NULL DEFAULT '',
		is_staff BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS plays (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS actors (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_genres_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS play_actors (
		play_id BIGINT UNSIGNED NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (play_id, actor_id),
		CONSTRAINT fk_play_actors_play FOREIGN KEY (play_id) REFERENCES plays(id) ON DELETE CASCADE,
		CONSTRAINT fk_play_actors_actor FOREIGN KEY (actor_id) REFERENCES actors(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS play_genres (
		play_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (play_id, genre_id),
		CONSTRAINT fk_play_genres_play FOREIGN KEY (play_id) REFERENCES plays(id) ON DELETE CASCADE,
		CONSTRAINT fk_play_genres_genre FOREIGN KEY (genre_id) REFERENCES genres(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS theatre_halls (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		seat_rows INT NOT NULL,
		seats_in_row INT NOT NULL,
		CONSTRAINT chk_theatre_halls_layout CHECK (seat_rows > 0 AND seats_in_row > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS performances (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		play_id BIGINT UNSIGNED NOT NULL,
		theatre_hall_id BIGINT UNSIGNED NOT NULL,
		show_time DATETIME(6) NOT NULL,
		KEY idx_performances_show_time (show_time),
		CONSTRAINT fk_performances_play FOREIGN KEY (play_id) REFERENCES plays(id) ON DELETE CASCADE,
		CONSTRAINT fk_performances_hall FOREIGN KEY (theatre_hall_id) REFERENCES theatre_halls(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_reservations_user_created (user_id, created_at),
		CONSTRAINT fk_reservations_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		seat_row INT NOT NULL,
		seat_number INT NOT NULL,
		performance_id BIGINT UNSIGNED NOT NULL,
		reservation_id BIGINT UNSIGNED NULL,
		CONSTRAINT uq_tickets_performance_row_seat UNIQUE (performance_id, seat_row, seat_number),
		KEY idx_tickets_reservation (reservation_id),
		CONSTRAINT fk_tickets_performance FOREIGN KEY (performance_id) REFERENCES performances(id) ON DELETE CASCADE,
		CONSTRAINT fk_tickets_reservation FOREIGN KEY (reservation_id) REFERENCES reservations(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		is_staff BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS plays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS play_actors (
		play_id INTEGER NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		actor_id INTEGER NOT NULL REFERENCES actors(id) ON DELETE CASCADE,
		PRIMARY KEY (play_id, actor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS play_genres (
		play_id INTEGER NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (play_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS theatre_halls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		seat_rows INTEGER NOT NULL CHECK (seat_rows > 0),
		seats_in_row INTEGER NOT NULL CHECK (seats_in_row > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS performances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		play_id INTEGER NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		theatre_hall_id INTEGER NOT NULL REFERENCES theatre_halls(id) ON DELETE CASCADE,
		show_time DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seat_row INTEGER NOT NULL,
		seat_number INTEGER NOT NULL,
		performance_id INTEGER NOT NULL REFERENCES performances(id) ON DELETE CASCADE,
		reservation_id INTEGER NULL REFERENCES reservations(id) ON DELETE CASCADE,
		CONSTRAINT uq_tickets_performance_row_seat UNIQUE (performance_id, seat_row, seat_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_reservation ON tickets (reservation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user_created ON reservations (user_id, created_at)`,
}

// Migrate creates any missing tables for the database's driver.  It is
// idempotent and safe to run at every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := mysqlSchema
	if db.DriverName() == DriverSQLite {
		stmts = sqliteSchema
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
