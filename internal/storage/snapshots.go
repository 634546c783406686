/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gowhiteboard/internal/domain"
)

// language=SQL
// dialect=SQLite
const insertViewSnapshotSQL = `INSERT INTO view_snapshots(ts, offset_x, offset_y, zoom) VALUES (?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestViewSnapshotSQL = `SELECT ts, offset_x, offset_y, zoom FROM view_snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listViewSnapshotsSQL = `SELECT ts, offset_x, offset_y, zoom FROM view_snapshots ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneViewSnapshotsSQL = `DELETE FROM view_snapshots WHERE id NOT IN (
	SELECT id FROM view_snapshots ORDER BY ts DESC LIMIT ?
)`

// ViewSnapshot is one persisted point in the board's navigation history.
type ViewSnapshot struct {
	TS   time.Time
	View domain.View
}

// SaveViewSnapshot persists a view state with a timestamp. The debounced
// OnViewChanged callback is the usual source of these records.
func SaveViewSnapshot(ctx context.Context, bh *BoardHandle, v domain.View, ts time.Time) error {
	if bh == nil {
		return errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertViewSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), v.OffsetX, v.OffsetY, v.Zoom)
	return err
}

// GetLatestViewSnapshot returns the most recent view snapshot, or ok=false if none.
func GetLatestViewSnapshot(ctx context.Context, bh *BoardHandle) (ViewSnapshot, bool, error) {
	if bh == nil {
		return ViewSnapshot{}, false, errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return ViewSnapshot{}, false, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var snap ViewSnapshot
	err = db.QueryRowContext(ctx, selectLatestViewSnapshotSQL).Scan(&tsStr, &snap.View.OffsetX, &snap.View.OffsetY, &snap.View.Zoom)
	if errors.Is(err, sql.ErrNoRows) {
		return ViewSnapshot{}, false, nil
	}
	if err != nil {
		return ViewSnapshot{}, false, err
	}
	snap.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
	return snap, true, nil
}

// ListViewSnapshots returns up to limit most recent view snapshots, newest first.
func ListViewSnapshots(ctx context.Context, bh *BoardHandle, limit int) ([]ViewSnapshot, error) {
	if bh == nil {
		return nil, errors.New("nil BoardHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listViewSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []ViewSnapshot
	for rows.Next() {
		var tsStr string
		var snap ViewSnapshot
		if err := rows.Scan(&tsStr, &snap.View.OffsetX, &snap.View.OffsetY, &snap.View.Zoom); err != nil {
			return nil, err
		}
		snap.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// PruneViewSnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneViewSnapshots(ctx context.Context, bh *BoardHandle, keepLast int) (int64, error) {
	if bh == nil {
		return 0, errors.New("nil BoardHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneViewSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
