package validate

import "regexp"

// Family is a class of content rejected before scoring
type Family string

const (
	FamilyEducational  Family = "educational_content"
	FamilyLowQuality   Family = "low_quality_source"
	FamilyURLStructure Family = "education_url_path"
)

type rule struct {
	label string
	re    *regexp.Regexp
}

type ruleSet struct {
	family Family
	rules  []rule
}

func r(label, expr string) rule {
	return rule{label: label, re: regexp.MustCompile(expr)}
}

// defaultRuleSets are evaluated in order; the first matching family rejects the item
func defaultRuleSets() []ruleSet {
	return []ruleSet{
		{
			family: FamilyEducational,
			rules: []rule{
				r("revision guide", `\brevision (guides?|notes|cards?)\b`),
				r("study guide", `\bstudy (guides?|notes)\b`),
				r("coursework", `\bcoursework\b`),
				r("exam board", `\b(exam boards?|aqa|edexcel|wjec)\b`),
				// ocr and cambridge are ordinary words in news; require an exam term beside them
				r("exam board", `\b(ocr|cambridge international) (exams?|gcses?|igcses?|a-levels?|as-levels?|specifications?|syllabus(es)?|past papers?|mark schemes?)\b`),
				r("exam papers", `\b(past papers?|mark schemes?|specimen papers?)\b`),
				r("school qualification", `\b(gcse|igcse|a-level|as-level)s?\b`),
				r("key stage", `\b(ks[1-5]|key stage [1-5])\b`),
				r("grade level", `\b([1-9]|1[0-2])(st|nd|rd|th) grade\b`),
				r("grade level", `\bgrade (k|[1-9]|1[0-2]) (students?|pupils?|maths?|mathematics|science|reading|english|history|worksheets?|lessons?|curriculum|level)\b`),
				r("worksheet", `\bworksheets?\b`),
				r("homework help", `\bhomework\b`),
				r("lesson plan", `\blesson[- ]?plans?\b`),
				r("study site", `(bitesize|sparknotes|cliffsnotes|coursehero|quizlet|chegg|studocu)`),
			},
		},
		{
			family: FamilyLowQuality,
			rules: []rule{
				r("forum", `(\bforums?\.|/forums?/|/threads?/|\bmessage board\b|\bdiscussion (board|forum)\b)`),
				r("q&a site", `(reddit\.com|quora\.com|answers\.yahoo\.com|answers\.com)`),
				r("personal blog", `(blogspot\.com|wordpress\.com|tumblr\.com|medium\.com/@|\bmy (personal )?blog\b)`),
				r("press release", `(\bpress release\b|prnewswire|businesswire|globenewswire|einpresswire)`),
				r("promotional", `(\bsponsored\b|\bbuy now\b|\bdiscount code\b|\bpromo code\b|\baffiliate link\b|\blimited time offer\b)`),
				r("user-generated content", `(\buser[- ]generated\b|fandom\.com|/user/|/u/[a-z0-9_-]+|/profile/)`),
			},
		},
		{
			family: FamilyURLStructure,
			rules: []rule{
				r("student path", `/(students?|pupils?)/`),
				r("classroom path", `/(classroom|schools?|k-?12)/`),
				r("curriculum path", `/(curriculum|syllabus|revision|learn(ing)?-?zone)/`),
				r("assignment path", `/(assignments?|essays?|homework)/`),
			},
		},
	}
}

// educationAuthorities are official education domains exempt from URL-structure checks
var educationAuthorities = []string{
	"ed.gov",
	"education.gov.uk",
	"gov.uk",
	"education.gov.au",
	"education.govt.nz",
	"education.gouv.fr",
	"bmbf.de",
	"mext.go.jp",
	"unesco.org",
	"oecd.org",
}
