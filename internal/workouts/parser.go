package workouts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	categoryMarker = '#'
	// name, sets/reps, weight and duration follow every category header
	fieldsPerBlock = 4

	// upper bound for weight and duration, keeps calories finite
	maxAmount = 1e6
	// sets and reps are stored as INTEGER
	maxCount = math.MaxInt32
)

var (
	lineSeparators = strings.NewReplacer("\r\n", "\n", "\r", "\n", ";", "\n")

	nameRegex     = regexp.MustCompile(`^[\-*]?\s*(.*)$`)
	setsRepsRegex = regexp.MustCompile(`(?i)^[#\-*]?\s*(.*?)\s*sets?\s*[#\-*x×,]?\s*(.*?)\s*reps?$`)
	weightRegex   = regexp.MustCompile(`(?i)^[#\-*]?\s*(.*?)\s*(?:kgs|kg)$`)
	durationRegex = regexp.MustCompile(`(?i)^[#\-*]?\s*(.*?)\s*(?:minutes|minute|mins|min)$`)
)

type block struct {
	category string
	fields   []string
}

// Parse turns a raw workout submission into one Entry per category block.
//
// The text is split into lines on newlines and ';', blank lines are ignored.
// A line starting with '#' followed by something other than a number is a
// category header and opens a block. Every block holds exactly four more lines:
//
//	#Legs
//	Squat
//	#4 sets #10 reps
//	#80 kg
//	#45 min
//
// Blocks are grouped and size checked before any field is parsed.
// Line numbers in errors count non-blank lines from 1.
func Parse(raw string) ([]Entry, error) {
	lines := splitLines(raw)

	blocks, err := groupBlocks(lines)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(blocks))
	for i, b := range blocks {
		entry, err := parseBlock(i+1, b)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(lineSeparators.Replace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// isCategoryHeader reports whether the line opens a new block.
// Field lines may carry the same marker ("#4 sets#10 reps", "#80kg"), so a
// marked line reading as sets/reps, weight or duration is not a header.
// Anything else is, including categories starting with a digit ("#5x5").
func isCategoryHeader(line string) bool {
	if len(line) == 0 || line[0] != categoryMarker {
		return false
	}
	return !setsRepsRegex.MatchString(line) &&
		!weightRegex.MatchString(line) &&
		!durationRegex.MatchString(line)
}

func groupBlocks(lines []string) ([]block, error) {
	hasCategory := false
	for _, line := range lines {
		if isCategoryHeader(line) {
			hasCategory = true
			break
		}
	}
	if !hasCategory {
		return nil, &ValidationError{Err: ErrNoCategories}
	}

	var blocks []block
	var current *block
	closeCurrent := func() error {
		if current == nil {
			return nil
		}
		if len(current.fields) < fieldsPerBlock {
			return &ValidationError{Err: ErrMissingFields, Block: len(blocks) + 1}
		}
		blocks = append(blocks, *current)
		current = nil
		return nil
	}

	for i, line := range lines {
		if isCategoryHeader(line) {
			if err := closeCurrent(); err != nil {
				return nil, err
			}
			current = &block{
				category: strings.TrimSpace(line[1:]),
			}
			continue
		}

		if current == nil || len(current.fields) == fieldsPerBlock {
			return nil, &ValidationError{Err: ErrMissingCategory, Line: i + 1}
		}
		current.fields = append(current.fields, line)
	}

	if err := closeCurrent(); err != nil {
		return nil, err
	}

	return blocks, nil
}

func parseBlock(blockNum int, b block) (Entry, error) {
	if b.category == "" {
		return Entry{}, invalidFormat(blockNum, "category is empty")
	}

	name := strings.TrimSpace(nameRegex.FindStringSubmatch(b.fields[0])[1])
	if name == "" {
		return Entry{}, invalidFormat(blockNum, "workout name is empty")
	}

	entry := Entry{
		Category: b.category,
		Name:     name,
	}

	setsReps := setsRepsRegex.FindStringSubmatch(b.fields[1])
	if setsReps == nil {
		return Entry{}, invalidFormat(blockNum, "expected \"N sets M reps\", got %q", b.fields[1])
	}
	var err error
	if entry.Sets, err = parseCount(setsReps[1]); err != nil {
		return Entry{}, invalidFormat(blockNum, "sets %q", setsReps[1])
	}
	if entry.Reps, err = parseCount(setsReps[2]); err != nil {
		return Entry{}, invalidFormat(blockNum, "reps %q", setsReps[2])
	}

	weight := weightRegex.FindStringSubmatch(b.fields[2])
	if weight == nil {
		return Entry{}, invalidFormat(blockNum, "expected \"N kg\", got %q", b.fields[2])
	}
	if entry.WeightKg, err = parseAmount(weight[1]); err != nil {
		return Entry{}, invalidFormat(blockNum, "weight %q", weight[1])
	}

	duration := durationRegex.FindStringSubmatch(b.fields[3])
	if duration == nil {
		return Entry{}, invalidFormat(blockNum, "expected \"N min\", got %q", b.fields[3])
	}
	if entry.DurationMin, err = parseAmount(duration[1]); err != nil {
		return Entry{}, invalidFormat(blockNum, "duration %q", duration[1])
	}

	return entry, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxCount {
		return 0, ErrInvalidFormat
	}
	return n, nil
}

func parseAmount(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > maxAmount {
		return 0, ErrInvalidFormat
	}
	return f, nil
}
