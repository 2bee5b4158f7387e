package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"ariga.io/atlas/sql/migrate"

	"github.com/syssam/rdb/dialect/sql/schema"
)

// writeScript writes the batch to path through a temporary file, so that
// readers never observe a partial script.
func writeScript(path string, b *schema.Batch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// writeMigration adds the batch to the Atlas migration directory as
// <version>_<name>.sql and updates atlas.sum. Nothing is written when the
// latest migration already holds the same script. The directory must pass
// the checksum validation first.
func writeMigration(path, version, name string, b *schema.Batch) (string, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create migration directory: %w", err)
	}
	dir, err := migrate.NewLocalDir(path)
	if err != nil {
		return "", err
	}
	if err := migrate.Validate(dir); err != nil {
		return "", fmt.Errorf("validate migration directory: %w", err)
	}
	script := []byte(b.String())
	files, err := dir.Files()
	if err != nil {
		return "", err
	}
	if n := len(files); n > 0 && bytes.Equal(files[n-1].Bytes(), script) {
		return "", nil
	}
	file := version + "_" + name + ".sql"
	if err := dir.WriteFile(file, script); err != nil {
		return "", err
	}
	sum, err := dir.Checksum()
	if err != nil {
		return "", err
	}
	if err := migrate.WriteSumFile(dir, sum); err != nil {
		return "", err
	}
	return filepath.Join(path, file), nil
}
