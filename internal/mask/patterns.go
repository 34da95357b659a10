package mask

import "regexp"

// reToken matches any mask token. Text inside a token is never rewritten.
var reToken = regexp.MustCompile(`\[[A-Z]+(?:_\d+)?\]`)

type linePattern struct {
	re    *regexp.Regexp
	token string
}

// Label lines: everything after the label is masked, tokens included.
var lineMasks = []linePattern{
	{regexp.MustCompile(`(?mi)^([ \t]*(?:본점\s*소재지|소재지|주\s*소|address)[ \t]*[:：][ \t]*)\S[^\n]*$`), "[ADDRESS]"},
	{regexp.MustCompile(`(?mi)^([ \t]*(?:대표이사|대표자|성\s*명|담당자|연락\s*담당자|representative|name)[ \t]*[:：][ \t]*)\S[^\n]*$`), "[PERSON]"},
}

// Person labels inside running text, e.g. collapsed snippets.
var inlinePerson = regexp.MustCompile(`(^|[^가-힣A-Za-z])((?:대표이사|대표자|성\s*명|담당자|(?i:representative))[ \t]*[:：][ \t]*)(?:[가-힣]{2,4}|[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){0,2})`)

type structuralPattern struct {
	name  string
	re    *regexp.Regexp
	token string
}

// Tried in this order. A later pattern may mask what an earlier one left.
var structural = []structuralPattern{
	{"email", regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
	{"phone", regexp.MustCompile(`(?:\+82[ \-]?0?|\b0)\d{1,2}[ .\-]?\d{3,4}[ .\-]?\d{4}\b`), "[PHONE]"},
	{"rrn", regexp.MustCompile(`\b\d{6}[ \t]*-[ \t]*[1-4]\d{6}\b`), "[RRN]"},
	{"brn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{5}\b`), "[BRN]"},
	{"crn", regexp.MustCompile(`\b\d{6}-\d{7}\b`), "[CRN]"},
	{"account", regexp.MustCompile(`\b\d{3,6}-\d{2,6}-\d{4,8}(?:-\d{1,6})?\b`), "[ACCOUNT]"},
	{"date", regexp.MustCompile(`\b\d{4}[ \t]*(?:[.\-/]|년)[ \t]*\d{1,2}[ \t]*(?:[.\-/]|월)[ \t]*\d{1,2}(?:[ \t]*일)?`), "[DATE]"},
	{"amount", regexp.MustCompile(`(?:₩|KRW)[ \t]*\d[\d,]*(?:\.\d+)?|(?:금[ \t]*)?\d[\d,]*(?:\.\d+)?(?:[ \t]*(?:조|억|천만|백만|만|천)[ \t]*(?:\d[\d,]*)?)*[ \t]*원|\d[\d,]*(?:\.\d+)?[ \t]*(?:조|억|만)`), "[AMOUNT]"},
}
