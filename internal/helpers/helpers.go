package helpers

import (
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
)

// Fingerprint returns the upper-case hex BLAKE3-256 digest of data.
// It identifies a generated image in logs and the preview without
// printing the payload itself.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// ShortFingerprint returns the first 12 characters of Fingerprint(data).
func ShortFingerprint(data []byte) string {
	return AbbrevFingerprint(Fingerprint(data))
}

// AbbrevFingerprint shortens an already computed fingerprint for display.
func AbbrevFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// Truncate returns the first n characters (runes, not bytes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// BytesToSize converts a byte count into a human-readable string (KB, MB, GB, etc.).
func BytesToSize(bytes uint64) string {
	sizes := []string{"B", "KB", "MB", "GB", "TB"}
	if bytes == 0 {
		return "0B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1 // Handle very large sizes
	}
	return fmt.Sprintf("%.2f%s", float64(bytes)/math.Pow(1024, float64(i)), sizes[i])
}

// ConvertToSlug converts a string into a filesystem-friendly slug.
func ConvertToSlug(str string) string {
	str = strings.ReplaceAll(str, " ", "_")
	str = strings.ReplaceAll(str, ":", "-")
	str = strings.ToLower(str)

	allowedChars := "0123456789abcdefghijklmnopqrstuvwxyz._-"

	var filtered strings.Builder
	for _, ch := range str {
		if strings.ContainsRune(allowedChars, ch) {
			filtered.WriteRune(ch)
		}
	}
	str = filtered.String()

	// Simplify repeated separators until nothing changes; collapsing a
	// mixed pair can produce a new repeated one.
	for prev := ""; prev != str; {
		prev = str
		str = strings.ReplaceAll(str, "--", "-")
		str = strings.ReplaceAll(str, "__", "_")
		str = strings.ReplaceAll(str, "-_", "-")
		str = strings.ReplaceAll(str, "_-", "-")
	}

	return strings.Trim(str, "_-")
}

// CheckAndMakeDir ensures a directory exists, creating it if necessary.
func CheckAndMakeDir(dir string) bool {
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.WithError(err).Errorf("Error creating directory %s", dir)
		return false
	}
	return true
}
