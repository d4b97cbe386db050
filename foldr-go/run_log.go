package foldr_go

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const kRunLogVersion = 1

type LoadStatus int8

const (
	LOAD_ERROR LoadStatus = iota
	LOAD_SUCCESS
	LOAD_NOT_FOUND
)

// / HashSource fingerprints program text.
func HashSource(source string) string {
	sum := blake3.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// / RunEntry is one recorded execution.
type RunEntry struct {
	ID          int64
	Path        string
	SourceHash  string
	StartMillis int64
	EndMillis   int64
	ExitCode    int
	Error       string
}

// / RunLog stores one row per program run in an SQLite database.
type RunLog struct {
	conn_       *sqlite.Conn
	stmtInsert_ *sqlite.Stmt
	stmtRecent_ *sqlite.Stmt
	path_       string
}

func NewRunLog() *RunLog {
	ret := RunLog{}
	return &ret
}

// / Open an existing log for reading.
func (this *RunLog) Load(path string) (LoadStatus, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LOAD_NOT_FOUND, nil
		}
		return LOAD_ERROR, err
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return LOAD_ERROR, err
	}
	version := int64(-1)
	err = sqlitex.ExecuteTransient(conn, "PRAGMA user_version;", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		conn.Close()
		return LOAD_ERROR, err
	}
	if version != kRunLogVersion {
		conn.Close()
		return LOAD_ERROR, fmt.Errorf("%s: unsupported run log version %d", path, version)
	}
	this.conn_ = conn
	this.path_ = path
	return LOAD_SUCCESS, this.prepare()
}

// / Open path for appending, creating the database and schema if needed.
func (this *RunLog) OpenForWrite(path string) error {
	if this.conn_ != nil {
		return nil
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		return err
	}
	schema := "CREATE TABLE IF NOT EXISTS foldr_runs (" +
		"`id` INTEGER PRIMARY KEY AUTOINCREMENT, `path` TEXT, `source_hash` TEXT, " +
		"`start_ms` INTEGER, `end_ms` INTEGER, `exit_code` INTEGER, `error` TEXT);"
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return err
	}
	pragma := fmt.Sprintf("PRAGMA user_version = %d;", kRunLogVersion)
	if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
		conn.Close()
		return err
	}
	this.conn_ = conn
	this.path_ = path
	return this.prepare()
}

func (this *RunLog) prepare() error {
	var err error
	this.stmtRecent_, err = this.conn_.Prepare("SELECT `id`, `path`, `source_hash`, `start_ms`, `end_ms`, " +
		"`exit_code`, `error` FROM foldr_runs ORDER BY `id` DESC LIMIT $limit;")
	if err != nil {
		return err
	}
	this.stmtInsert_, err = this.conn_.Prepare("INSERT INTO foldr_runs " +
		"(`path`, `source_hash`, `start_ms`, `end_ms`, `exit_code`, `error`) VALUES " +
		"($path, $source_hash, $start_ms, $end_ms, $exit_code, $error);")
	return err
}

func (this *RunLog) RecordRun(entry *RunEntry) error {
	if this.conn_ == nil {
		return errors.New("run log not open")
	}
	stmt := this.stmtInsert_
	if err := stmt.Reset(); err != nil {
		return err
	}
	stmt.SetText("$path", entry.Path)
	stmt.SetText("$source_hash", entry.SourceHash)
	stmt.SetInt64("$start_ms", entry.StartMillis)
	stmt.SetInt64("$end_ms", entry.EndMillis)
	stmt.SetInt64("$exit_code", int64(entry.ExitCode))
	stmt.SetText("$error", entry.Error)
	if _, err := stmt.Step(); err != nil {
		return err
	}
	entry.ID = this.conn_.LastInsertRowID()
	return nil
}

// / Recent returns up to limit entries, newest first.
func (this *RunLog) Recent(limit int) ([]*RunEntry, error) {
	if this.conn_ == nil {
		return nil, errors.New("run log not open")
	}
	stmt := this.stmtRecent_
	if err := stmt.Reset(); err != nil {
		return nil, err
	}
	stmt.SetInt64("$limit", int64(limit))
	entries := []*RunEntry{}
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}
		entries = append(entries, &RunEntry{
			ID:          stmt.GetInt64("id"),
			Path:        stmt.GetText("path"),
			SourceHash:  stmt.GetText("source_hash"),
			StartMillis: stmt.GetInt64("start_ms"),
			EndMillis:   stmt.GetInt64("end_ms"),
			ExitCode:    int(stmt.GetInt64("exit_code")),
			Error:       stmt.GetText("error"),
		})
	}
	return entries, nil
}

func (this *RunLog) Close() error {
	if this.conn_ == nil {
		return nil
	}
	for _, stmt := range []*sqlite.Stmt{this.stmtInsert_, this.stmtRecent_} {
		if stmt != nil {
			stmt.Finalize()
		}
	}
	err := this.conn_.Close()
	this.conn_ = nil
	this.stmtInsert_ = nil
	this.stmtRecent_ = nil
	return err
}
