package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates all tables when missing. The app owns its schema; there
// is no external migration tool in the deployment.
func EnsureSchema(ctx context.Context, database *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS packages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	slug VARCHAR(120) NOT NULL,
	name VARCHAR(255) NOT NULL,
	base_price BIGINT NOT NULL DEFAULT 0,
	duration_minutes INT NOT NULL DEFAULT 0,
	capacity INT NOT NULL DEFAULT 0,
	active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_package_slug (slug)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS departures (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	package_id BIGINT NOT NULL,
	departs_at DATETIME NOT NULL,
	capacity INT NOT NULL,
	reserved INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_departure_package (package_id),
	KEY idx_departure_time (departs_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS guests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NULL DEFAULT NULL,
	UNIQUE KEY uniq_guest_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	guest_id BIGINT NOT NULL,
	departure_id BIGINT NOT NULL,
	participants INT NOT NULL,
	total_price BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(30) NOT NULL DEFAULT 'confirmed',
	notes TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_booking_guest (guest_id),
	KEY idx_booking_departure (departure_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS snowmobiles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	code VARCHAR(50) NOT NULL,
	model VARCHAR(255) NOT NULL DEFAULT '',
	daily_price BIGINT NOT NULL DEFAULT 0,
	active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_snowmobile_code (code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS rentals (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	guest_id BIGINT NOT NULL,
	snowmobile_id BIGINT NOT NULL,
	from_date DATE NOT NULL,
	to_date DATE NOT NULL,
	total_price BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(30) NOT NULL DEFAULT 'confirmed',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_rental_unit (snowmobile_id),
	KEY idx_rental_guest (guest_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(30) NOT NULL DEFAULT 'staff',
	status VARCHAR(30) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_user_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	}

	for _, stmt := range stmts {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
