package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// DataFilePath joins the data directory, logical name and extension.
func DataFilePath(dataDirectory, name, extension string) string {
	return filepath.Join(dataDirectory, name+extension)
}

// TrimDataFileName returns the logical name of fileName when it carries the
// extension, and false otherwise.
func TrimDataFileName(fileName, extension string) (string, bool) {
	if !strings.HasSuffix(fileName, extension) {
		return "", false
	}
	name := strings.TrimSuffix(fileName, extension)
	if name == "" {
		return "", false
	}
	return name, true
}

// DeleteDataFile deletes a file
func DeleteDataFile(filePath string) error {
	return os.Remove(filePath)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string, logger *zap.SugaredLogger) bool {
	info, err := os.Stat(filename)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Infof("Error checking file %s for existence: %s", filename, err)
		}
		return false
	}

	return !info.IsDir()
}

// IsReadable reports whether the calling process may read filename.
func IsReadable(filename string) error {
	if err := unix.Access(filename, unix.R_OK); err != nil {
		return fmt.Errorf("cannot read %s: %w", filename, err)
	}
	return nil
}

func EncodeBSON(document interface{}) ([]byte, error) {
	bsonData, err := bson.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("error encoding BSON: %w", err)
	}
	return bsonData, nil
}

// DecodeBSON decodes a document keeping its field order.
func DecodeBSON(bsonData []byte) (bson.D, error) {
	var decodedData bson.D
	if err := bson.Unmarshal(bsonData, &decodedData); err != nil {
		return nil, fmt.Errorf("error decoding BSON: %w", err)
	}
	return decodedData, nil
}
