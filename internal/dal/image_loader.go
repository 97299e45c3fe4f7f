package dal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// LoadImagesIntoDatabase loads image files from the static images directory
// into the images table, so every replica serves the same assets without a
// shared volume
func LoadImagesIntoDatabase(db *sql.DB, imagesDir string) error {
	files, err := filepath.Glob(filepath.Join(imagesDir, "*.png"))
	if err != nil {
		return fmt.Errorf("failed to list image files: %w", err)
	}

	for _, filePath := range files {
		imageData, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read image file %s: %w", filePath, err)
		}

		// Keyed by the disk-style path the image handler looks up
		imagePath := "/static/images/" + filepath.Base(filePath)

		_, err = db.Exec(`
			INSERT INTO images (path, data)
			VALUES ($1, $2)
			ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP
		`, imagePath, imageData)
		if err != nil {
			return fmt.Errorf("failed to store image data for %s: %w", imagePath, err)
		}
	}

	return nil
}

// MigrateImagesToDatabase loads the bundled static images during seeding.
// Missing directory is not an error: development setups serve straight from
// disk.
func (p *PostgresDAL) MigrateImagesToDatabase() error {
	imagesDir := "static/images"
	if _, err := os.Stat(imagesDir); os.IsNotExist(err) {
		return nil
	}
	return LoadImagesIntoDatabase(p.db, imagesDir)
}

// GetImageByPath retrieves stored image bytes by path (e.g. /static/images/om.png)
func (p *PostgresDAL) GetImageByPath(imagePath string) ([]byte, error) {
	var imageData []byte
	err := p.db.QueryRow(`SELECT data FROM images WHERE path = $1`, imagePath).Scan(&imageData)
	if err != nil {
		return nil, err
	}
	return imageData, nil
}
