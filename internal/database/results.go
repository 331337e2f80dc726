// internal/database/results.go
package database

import (
	"context"
	"fmt"
	"time"
)

// GameResult is the archived outcome of one finished game.
//
// Schema:
//
//	CREATE TABLE game_results (
//	    id            BIGSERIAL PRIMARY KEY,
//	    room_code     TEXT NOT NULL,
//	    winner_name   TEXT NOT NULL,
//	    player_count  INT NOT NULL,
//	    stockpile_size INT NOT NULL,
//	    duration_ms   BIGINT NOT NULL,
//	    finished_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type GameResult struct {
	RoomCode      string
	WinnerName    string
	PlayerCount   int
	StockpileSize int
	Duration      time.Duration
}

// RecordGameResult archives a finished game. No-op while DB is nil.
func RecordGameResult(ctx context.Context, res GameResult) error {
	if DB == nil {
		return nil
	}
	q := `
		INSERT INTO game_results (room_code, winner_name, player_count, stockpile_size, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := DB.Exec(ctx, q, res.RoomCode, res.WinnerName, res.PlayerCount, res.StockpileSize, res.Duration.Milliseconds()); err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}
