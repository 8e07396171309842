package main

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cinema/catalog"

	"github.com/samber/lo"
)

// maxNameLength matches the name columns of the SQL schema.
const maxNameLength = 100

func sampleCatalog() ([]catalog.Movie, []catalog.Theatre) {
	movies := []catalog.Movie{
		{ID: 1, Name: "Inception"},
		{ID: 2, Name: "Interstellar"},
		{ID: 3, Name: "The Dark Knight"},
		{ID: 4, Name: "Arrival"},
		{ID: 5, Name: "Parasite"},
	}
	theatres := []catalog.Theatre{
		{ID: 1, Name: "Cineplex", Movies: []catalog.Movie{movies[0], movies[1], movies[2]}},
		{ID: 2, Name: "Odeon", Movies: []catalog.Movie{movies[1], movies[3]}},
		{ID: 3, Name: "Rex", Movies: []catalog.Movie{movies[4]}},
	}
	return movies, theatres
}

// spreadAcrossTheatres deals movies round-robin over n generated theatres.
func spreadAcrossTheatres(movies []catalog.Movie, n int) []catalog.Theatre {
	theatres := lo.Times(n, func(i int) catalog.Theatre {
		return catalog.Theatre{
			ID:     i + 1,
			Name:   fmt.Sprintf("Theatre %d", i+1),
			Movies: []catalog.Movie{},
		}
	})
	for i, m := range movies {
		t := &theatres[i%n]
		t.Movies = append(t.Movies, m)
	}
	return theatres
}

func downloadAndExtract(zipURL string) (string, func(), error) {
	if zipURL == "" {
		return "", func() {}, errors.New("dataset url is empty")
	}

	tmpDir, err := os.MkdirTemp("", "movielens-")
	if err != nil {
		return "", func() {}, err
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	zipPath := filepath.Join(tmpDir, "dataset.zip")
	if err := downloadFile(zipURL, zipPath); err != nil {
		cleanup()
		return "", func() {}, err
	}

	csvPath, err := extractMoviesCSV(zipPath, tmpDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	return csvPath, cleanup, nil
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // nolint: noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func extractMoviesCSV(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, file := range r.File {
		if !strings.HasSuffix(file.Name, "movies.csv") {
			continue
		}
		return copyZipFile(file, filepath.Join(destDir, filepath.Base(file.Name)))
	}

	return "", errors.New("movies.csv not found in zip")
}

func copyZipFile(file *zip.File, destPath string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return destPath, nil
}

// readMovies reads up to limit rows (0 = all) of a MovieLens movies.csv.
// Rows with a malformed id are skipped, and so are repeated ids.
func readMovies(csvPath string, limit int) ([]catalog.Movie, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseMovies(file, limit)
}

func parseMovies(r io.Reader, limit int) ([]catalog.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idxMovieID, idxTitle, err := parseMovieCSVHeader(reader)
	if err != nil {
		return nil, err
	}

	movies := []catalog.Movie{}
	seen := map[int]struct{}{}
	for limit <= 0 || len(movies) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return movies, err
		}

		m, ok := parseMovieRecord(record, idxMovieID, idxTitle)
		if !ok {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		movies = append(movies, m)
	}

	return movies, nil
}

func parseMovieCSVHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}

	idxMovieID, idxTitle := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "movieId":
			idxMovieID = i
		case "title":
			idxTitle = i
		}
	}
	if idxMovieID == -1 || idxTitle == -1 {
		return 0, 0, errors.New("missing required columns in csv header")
	}

	return idxMovieID, idxTitle, nil
}

func parseMovieRecord(record []string, idxMovieID, idxTitle int) (catalog.Movie, bool) {
	if idxMovieID >= len(record) || idxTitle >= len(record) {
		return catalog.Movie{}, false
	}

	movieID, err := strconv.Atoi(strings.TrimSpace(record[idxMovieID]))
	if err != nil || movieID <= 0 {
		return catalog.Movie{}, false
	}

	title := []rune(strings.TrimSpace(record[idxTitle]))
	if len(title) > maxNameLength {
		title = title[:maxNameLength]
	}
	return catalog.Movie{ID: movieID, Name: string(title)}, true
}
