package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"sync"
	"time"

	"zipcrack/internal/archmap"
	"zipcrack/internal/candidate"
	"zipcrack/internal/crack"
	"zipcrack/internal/zerr"
	"zipcrack/internal/zipfile"
)

var reBruteArg = regexp.MustCompile(`^(\d+):(.*)$`)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, zerr.ErrNoMatch) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	archivePath := flag.String("z", "", "path to the ZIP archive")
	dictPath := flag.String("d", "", "path to a newline-delimited dictionary file")
	bruteArg := flag.String("b", "", "brute-force configuration LEN:REGEX, e.g. 8:[a-z0-9]")
	workers := flag.Int("workers", runtime.NumCPU(), "number of parallel workers")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -z ARCHIVE (-d DICT | -b LEN:REGEX) [-workers N]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *archivePath == "" {
		flag.Usage()
		return zerr.ErrBadArgs
	}
	if (*dictPath == "") == (*bruteArg == "") {
		flag.Usage()
		return fmt.Errorf("%w: exactly one of -d or -b is required", zerr.ErrBadArgs)
	}

	archiveMap, err := archmap.Open(*archivePath)
	if err != nil {
		return fmt.Errorf("%w: opening archive: %v", zerr.ErrIOFailure, err)
	}
	defer archiveMap.Close()

	archive := archiveMap.Bytes()
	if !zipfile.IsZip(archive) {
		return fmt.Errorf("%w: not a ZIP archive", zerr.ErrMalformedArchive)
	}

	entries, err := zipfile.Walk(archive)
	if err != nil {
		return err
	}

	anyEncrypted := false
	for _, e := range entries {
		if e.IsEncrypted() {
			anyEncrypted = true
			break
		}
	}
	if !anyEncrypted {
		return fmt.Errorf("%w: no encrypted entries found", zerr.ErrMalformedArchive)
	}

	opts := crack.Options{Workers: *workers, Progress: progressReporter()}

	var result crack.Result
	if *dictPath != "" {
		dictMap, err := archmap.Open(*dictPath)
		if err != nil {
			return fmt.Errorf("%w: opening dictionary: %v", zerr.ErrIOFailure, err)
		}
		defer dictMap.Close()

		src := candidate.NewDictionarySource(dictMap.Bytes())
		result = crack.SearchDictionary(entries, src, opts)
	} else {
		length, pattern, err := parseBruteArg(*bruteArg)
		if err != nil {
			return err
		}
		src, err := candidate.NewBruteSource(pattern, length)
		if err != nil {
			return fmt.Errorf("%w: %v", zerr.ErrBadArgs, err)
		}
		result = crack.SearchBrute(entries, src, opts)
	}

	if !result.Found {
		fmt.Println("no password found")
		return zerr.ErrNoMatch
	}
	fmt.Printf("found password [%s]\n", result.Password)
	return nil
}

func parseBruteArg(arg string) (length int, pattern string, err error) {
	m := reBruteArg.FindStringSubmatch(arg)
	if m == nil {
		return 0, "", fmt.Errorf("%w: -b argument must match LEN:REGEX", zerr.ErrBadArgs)
	}
	n, err := strconv.ParseUint(m[1], 10, 8)
	if err != nil {
		return 0, "", fmt.Errorf("%w: brute-force length must fit in a byte: %v", zerr.ErrBadArgs, err)
	}
	return int(n), m[2], nil
}

// progressReporter prints a throughput line to stderr roughly once per
// second; returns nil (disabling progress entirely) when stderr isn't a
// terminal.
// Called concurrently from every worker, so access to "last printed at" is
// serialized with a mutex rather than trusting the caller's batching alone.
func progressReporter() func(uint64) {
	info, err := os.Stderr.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return nil
	}

	start := time.Now()
	var mu sync.Mutex
	var last time.Time
	return func(checked uint64) {
		now := time.Now()

		mu.Lock()
		if now.Sub(last) < time.Second {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()

		elapsed := now.Sub(start).Seconds()
		if elapsed < 1e-9 {
			elapsed = 1e-9
		}
		fmt.Fprintf(os.Stderr, "\r  Checked: %d | Speed: %.1fk/s | Elapsed: %.1fs        ",
			checked, float64(checked)/elapsed/1000, elapsed)
	}
}
