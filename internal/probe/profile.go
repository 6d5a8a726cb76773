package probe

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

var (
	headingATXRe   = regexp.MustCompile(`^#{1,6}\s+\S`)
	headingNumRe   = regexp.MustCompile(`^\d+(\.\d+)+\s`)
	headingCNRe    = regexp.MustCompile(`^[一二三四五六七八九十百千]+、`)
	listBulletRe   = regexp.MustCompile(`^\s*[-*+]\s`)
	listNumberedRe = regexp.MustCompile(`^\s*\d+\.\s`)
	codeFenceRe    = regexp.MustCompile("```")
	codeKeywordRe  = regexp.MustCompile(`\b(class |def |function )`)
	codeTrailingRe = regexp.MustCompile(`;\s*$`)
)

// BuildProfile implements spec.md §4.D's line-level regex feature
// extraction over a page/paragraph sample.
func BuildProfile(sample domain.PageSample) domain.Profile {
	var (
		totalLines int
		heading    int
		list       int
		table      int
		code       int
		totalChars int
		nonAlpha   int
	)

	var paraLens []float64

	for _, page := range sample {
		for _, para := range splitParagraphs(page) {
			paraLens = append(paraLens, float64(len([]rune(para))))
		}

		lines := strings.Split(page, "\n")
		for _, line := range lines {
			trimmed := strings.TrimRight(line, "\r")
			if trimmed == "" {
				continue
			}
			totalLines++

			if isHeadingLine(trimmed) {
				heading++
			}
			if isListLine(trimmed) {
				list++
			}
			if isTableLine(trimmed) {
				table++
			}
			if isCodeLine(trimmed) {
				code++
			}
			for _, r := range trimmed {
				totalChars++
				if !unicode.IsLetter(r) {
					nonAlpha++
				}
			}
		}
	}

	p := domain.Profile{
		HeadingRatio:     ratio(heading, totalLines),
		ListRatio:        ratio(list, totalLines),
		TableRatio:       ratio(table, totalLines),
		CodeRatio:        ratio(code, totalLines),
		DigitSymbolRatio: ratio(nonAlpha, totalChars),
		P50ParaLen:       quantile(paraLens, 0.50),
		P90ParaLen:       quantile(paraLens, 0.90),
	}
	return RoundProfile(p)
}

func isHeadingLine(line string) bool {
	return headingATXRe.MatchString(line) || headingNumRe.MatchString(line) || headingCNRe.MatchString(line)
}

func isListLine(line string) bool {
	return listBulletRe.MatchString(line) || listNumberedRe.MatchString(line)
}

func isTableLine(line string) bool {
	if strings.Count(line, "|") >= 2 {
		return true
	}
	return strings.Count(line, ",") >= 3
}

func isCodeLine(line string) bool {
	if codeFenceRe.MatchString(line) {
		return true
	}
	if codeKeywordRe.MatchString(line) {
		return true
	}
	return codeTrailingRe.MatchString(line)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// RoundProfile rounds every numeric field to 3 decimals (spec.md §4.D
// "Output rounding").
func RoundProfile(p domain.Profile) domain.Profile {
	p.HeadingRatio = round3(p.HeadingRatio)
	p.ListRatio = round3(p.ListRatio)
	p.TableRatio = round3(p.TableRatio)
	p.CodeRatio = round3(p.CodeRatio)
	p.DigitSymbolRatio = round3(p.DigitSymbolRatio)
	p.P50ParaLen = round3(p.P50ParaLen)
	p.P90ParaLen = round3(p.P90ParaLen)
	return p
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
