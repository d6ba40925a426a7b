// Package ranking orders and narrows report files.
package ranking

import (
	"sort"
	"strings"

	"github.com/phobologic/guardgen/internal/model"
)

// Rank sorts files in place so those with the most configs come first.
// Ties keep path order.
func Rank(files []model.FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		ci, cj := files[i].ConfigCount(), files[j].ConfigCount()
		if ci != cj {
			return ci > cj
		}
		return files[i].Path < files[j].Path
	})
}

// SelectFiles returns a new Report with only the top-ranked files.
// If maxFiles is <= 0 or >= len(files), the report is returned unchanged.
func SelectFiles(r *model.Report, maxFiles int) *model.Report {
	if maxFiles <= 0 || maxFiles >= len(r.Files) {
		return r
	}
	return &model.Report{
		RepoName: r.RepoName,
		Root:     r.Root,
		Files:    r.Files[:maxFiles],
	}
}

// FilterByFile returns a new Report containing only files whose path
// contains substr (case-insensitive).
func FilterByFile(r *model.Report, substr string) *model.Report {
	lower := strings.ToLower(substr)

	var files []model.FileInfo
	for i := range r.Files {
		if strings.Contains(strings.ToLower(r.Files[i].Path), lower) {
			files = append(files, r.Files[i])
		}
	}
	return &model.Report{RepoName: r.RepoName, Root: r.Root, Files: files}
}

// FilterByCallable returns a new Report containing only callables whose
// Class.Name contains substr (case-insensitive), and the files that
// declare them.
func FilterByCallable(r *model.Report, substr string) *model.Report {
	lower := strings.ToLower(substr)

	var files []model.FileInfo
	for i := range r.Files {
		fi := r.Files[i]
		var kept []model.Callable
		for j := range fi.Callables {
			c := &fi.Callables[j]
			if strings.Contains(strings.ToLower(c.Class+"."+c.Name), lower) {
				kept = append(kept, *c)
			}
		}
		if len(kept) > 0 {
			fi.Callables = kept
			files = append(files, fi)
		}
	}
	return &model.Report{RepoName: r.RepoName, Root: r.Root, Files: files}
}
