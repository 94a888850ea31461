package backupsvc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/storage/database"
)

const (
	backupDir      = "Backup"
	restoreMessage = "Restore successful! Please restart the app."
)

var (
	ErrBackupNotFound = errors.New("backup file not found")

	checkpointFunc = database.Checkpoint // mockable
)

// Service copies the database file to and from the Downloads folder.
type Service struct {
	db     *sqlx.DB
	conf   *core.Config
	logger core.Logger
}

func NewService(db *sqlx.DB, conf *core.Config, logger core.Logger) *Service {
	return &Service{db: db, conf: conf, logger: logger}
}

// Dir returns "Downloads/<AppName>/Backup".
func (svc *Service) Dir() string {
	return filepath.Join(svc.conf.AppDownloadsDir(), backupDir)
}

// Path returns the location of the backup file.
func (svc *Service) Path() string {
	name := strings.TrimSuffix(svc.conf.Database.Name, filepath.Ext(svc.conf.Database.Name))
	return filepath.Join(svc.Dir(), name+"_backup.db")
}

// Backup flushes the write-ahead log and copies the database file to Path, replacing any previous backup.
func (svc *Service) Backup(ctx context.Context) (string, error) {
	if err := checkpointFunc(ctx, svc.db); err != nil {
		return "", err
	}
	if err := os.MkdirAll(svc.Dir(), 0o755); err != nil {
		return "", errors.Wrap(err, "creating backup directory")
	}
	if err := copyFile(svc.conf.Database.Path(), svc.Path()); err != nil {
		return "", errors.Wrap(err, "copying database")
	}
	svc.logger.Info("database backed up", map[string]interface{}{"path": svc.Path()})
	return "Backup Saved: " + filepath.Join("Downloads", svc.conf.AppName, backupDir), nil
}

// Restore replaces the database file with the backup. The database handle is closed first
// and stays closed: the app must be restarted afterwards.
func (svc *Service) Restore(_ context.Context) (string, error) {
	if _, err := os.Stat(svc.Path()); err != nil {
		if os.IsNotExist(err) {
			return "", ErrBackupNotFound
		}
		return "", errors.Wrap(err, "reading backup")
	}
	if err := svc.db.Close(); err != nil {
		return "", errors.Wrap(err, "closing database")
	}

	dbPath := svc.conf.Database.Path()
	if err := copyFile(svc.Path(), dbPath); err != nil {
		return "", errors.Wrap(err, "restoring database")
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "removing %s file", suffix)
		}
	}
	svc.logger.Info("database restored", map[string]interface{}{"from": svc.Path()})
	return restoreMessage, nil
}

// copyFile writes src to a temp file next to dst, then renames it over dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
