package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckReadable verifies that path exists and can be read.
func CheckReadable(name, option, path string) Result {
	result := Result{Name: name, Option: option, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Detail = "does not exist"
			return result
		}
		result.Detail = fmt.Sprintf("stat: %v", err)
		return result
	}
	mode := uint32(unix.R_OK)
	if info.IsDir() {
		mode |= unix.X_OK
	}
	if err := unix.Access(path, mode); err != nil {
		result.Detail = fmt.Sprintf("not readable: %v", err)
		return result
	}
	result.Passed = true
	result.Detail = "readable"
	return result
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, option, path string) Result {
	result := Result{Name: name, Option: option, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Detail = "does not exist"
			return result
		}
		result.Detail = fmt.Sprintf("stat: %v", err)
		return result
	}
	if !info.IsDir() {
		result.Detail = "is not a directory"
		return result
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		result.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return result
	}
	result.Passed = true
	result.Detail = "read/write ok"
	return result
}

// CheckWritableTarget verifies that path can be created or written: the
// nearest existing ancestor (path itself included) must be a writable
// directory.
func CheckWritableTarget(name, option, path string) Result {
	dir := filepath.Clean(path)
	for {
		if _, err := os.Lstat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	result := CheckDirectoryAccess(name, option, dir)
	result.Path = path
	if !result.Passed && dir != filepath.Clean(path) {
		result.Detail = fmt.Sprintf("%s: %s", dir, result.Detail)
	}
	return result
}
