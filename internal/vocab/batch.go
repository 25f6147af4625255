package vocab

import (
	"fmt"
	"slices"
)

const (
	// WordsPerDay is the size of a stage's main batch.
	WordsPerDay = 15
	// ReviewWordsCount is the size of a stage's review batch.
	ReviewWordsCount = 5
)

// MainBatch returns the stage's main batch: WordsPerDay consecutive words
// starting at ((stage-1)*WordsPerDay) mod len(pool), wrapping around the
// pool. Pools smaller than WordsPerDay are returned whole, each word once.
func MainBatch(pool []Word, stage int) []Word {
	n := len(pool)
	if n == 0 {
		return nil
	}
	start := ((max(stage, 1)-1)*WordsPerDay%n + n) % n
	size := min(WordsPerDay, n)
	out := make([]Word, size)
	for i := range size {
		out[i] = pool[(start+i)%n]
	}
	return out
}

// ReviewBatch picks up to ReviewWordsCount words outside main, preferring
// starred words. Both partitions are ordered by the pinned hash of
// word+"stage-{stage}-seed-{seed}", so the choice is reproducible for a
// (stage, seed) pair and reshuffles when the seed changes.
func ReviewBatch(pool, main []Word, stage, seed int, starred map[string]bool) []Word {
	inMain := make(map[string]bool, len(main))
	for _, w := range main {
		inMain[w.Word] = true
	}

	var starredRest, otherRest []Word
	for _, w := range pool {
		if inMain[w.Word] {
			continue
		}
		if starred[w.Word] {
			starredRest = append(starredRest, w)
		} else {
			otherRest = append(otherRest, w)
		}
	}

	salt := fmt.Sprintf("stage-%d-seed-%d", stage, seed)
	sortByHash(starredRest, salt)
	sortByHash(otherRest, salt)

	out := make([]Word, 0, ReviewWordsCount)
	out = append(out, starredRest[:min(ReviewWordsCount, len(starredRest))]...)
	if rest := ReviewWordsCount - len(out); rest > 0 {
		out = append(out, otherRest[:min(rest, len(otherRest))]...)
	}
	return out
}

func sortByHash(words []Word, salt string) {
	keys := make(map[string]int64, len(words))
	for _, w := range words {
		keys[w.Word] = Hash(w.Word + salt)
	}
	slices.SortStableFunc(words, func(a, b Word) int {
		ka, kb := keys[a.Word], keys[b.Word]
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}

// DailyBatch returns a stage's word set: its main batch plus its review
// batch, sorted alphabetically.
func DailyBatch(pool []Word, stage, seed int, starred map[string]bool) []Word {
	main := MainBatch(pool, stage)
	review := ReviewBatch(pool, main, stage, seed, starred)
	out := append(slices.Clone(main), review...)
	SortAlphabetical(out)
	return out
}

// StarredReview returns every pool word in the starred set, sorted
// alphabetically. It ignores stage and seed.
func StarredReview(pool []Word, starred map[string]bool) []Word {
	var out []Word
	seen := make(map[string]bool)
	for _, w := range pool {
		if starred[w.Word] && !seen[w.Word] {
			seen[w.Word] = true
			out = append(out, w)
		}
	}
	SortAlphabetical(out)
	return out
}

// Unlocked returns the words covered by stages 1..maxStage, the pool for
// cumulative tests.
func Unlocked(pool []Word, maxStage int) []Word {
	return pool[:min(max(maxStage, 0)*WordsPerDay, len(pool))]
}
