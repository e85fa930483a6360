package config

import (
	"os"
	"path/filepath"

	"orgd/pkg/types"
)

// defaultWatchedFolder returns the user's Downloads directory, falling back
// to the current directory when the home directory cannot be resolved.
func defaultWatchedFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// DefaultIgnorePatterns lists filename globs for in-progress download
// artifacts that must never be organized.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		".~*",
	}
}

// DefaultRules returns the built-in category table. Destination folders are
// created under the user's home directory.
func DefaultRules() []types.CategoryRule {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	rule := func(name, folder string, exts ...string) types.CategoryRule {
		return types.CategoryRule{
			Name:       name,
			FolderPath: filepath.Join(home, folder),
			Enabled:    true,
			Extensions: exts,
		}
	}
	return []types.CategoryRule{
		rule("Images", "Images",
			"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "webp", "svg",
			"ico", "raw", "cr2", "nef", "arw", "dng", "psd", "heic", "heif", "jfif"),
		rule("Videos", "Videos",
			"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "3gp",
			"mpg", "mpeg", "mts", "m2ts", "ogv", "ts"),
		rule("Audio", "Music",
			"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "opus", "aiff",
			"mid", "midi", "mka"),
		rule("Documents", "Documents",
			"pdf", "doc", "docx", "txt", "rtf", "odt", "pages", "tex",
			"epub", "mobi", "djvu", "cbr", "cbz", "md"),
		rule("Code", "Code",
			"py", "js", "html", "css", "java", "cpp", "c", "h", "php", "rb",
			"go", "rs", "swift", "kt", "ts", "jsx", "tsx", "vue", "sql",
			"sh", "bat", "ps1", "pl", "r", "scala", "lua", "dart", "zig"),
		rule("Archives", "Archives",
			"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "lz", "lzma",
			"iso", "jar", "tgz", "tbz2", "txz"),
		rule("Spreadsheets", "Spreadsheets",
			"xlsx", "xls", "csv", "ods", "numbers", "xlsm", "xlsb"),
		rule("Presentations", "Presentations",
			"pptx", "ppt", "odp", "key", "pps", "ppsx"),
		rule("Fonts", "Fonts",
			"ttf", "otf", "woff", "woff2", "eot", "ttc"),
		rule("Executables", "Programs",
			"exe", "msi", "dmg", "pkg", "deb", "rpm", "run", "bin",
			"appimage", "flatpak", "snap", "apk"),
	}
}
