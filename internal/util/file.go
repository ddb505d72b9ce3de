package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成唯一的文件名，只保留原始文件名的扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	if !isSafeExt(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
