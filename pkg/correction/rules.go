package correction

// DefaultRules is the built-in rule table.
//
// The order matters: later rules see the output of earlier ones.
var DefaultRules = []Rule{
	// subject-verb agreement: is/are/am
	{Pattern: `\b(everyone|everybody|someone|somebody|anyone|anybody|nobody|no one)\s+are\b`, Replacement: "${1} is"},
	{Pattern: `\b(you)\s+(is)\b`, Replacement: "${1} are"},
	{Pattern: `\b(we)\s+(is)\b`, Replacement: "${1} are"},
	{Pattern: `\b(they)\s+(is)\b`, Replacement: "${1} are"},
	{Pattern: `\b(I)\s+(are)\b`, Replacement: "${1} am"},
	{Pattern: `\b(he)\s+(are)\b`, Replacement: "${1} is"},
	{Pattern: `\b(she)\s+(are)\b`, Replacement: "${1} is"},
	{Pattern: `\b(it)\s+(are)\b`, Replacement: "${1} is"},
	{Pattern: `\b(he|she|it)\s+(am|are)\s+`, Replacement: "${1} is "},
	{Pattern: `\b(I)\s+(are|is)\s+`, Replacement: "${1} am "},
	{Pattern: `\b(we|you|they)\s+(am|is)\s+`, Replacement: "${1} are "},
	{Pattern: `\b(I|he|she|it)\s+(go|goes)\s+`, Replacement: "${1} goes "},
	{Pattern: `\b(we|you|they)\s+(goes)\s+`, Replacement: "${1} go "},

	// "had done ...ing" / "have done ...ing"
	{Pattern: `\bI\s+had\s+done\s+playing\b`, Replacement: "I had finished playing"},
	{Pattern: `\bI\s+had\s+done\s+(\w+ing)\b`, Replacement: "I had finished ${1}"},
	{Pattern: `\b(he|she|it)\s+had\s+done\s+(\w+ing)\b`, Replacement: "${1} had finished ${2}"},
	{Pattern: `\b(we|you|they)\s+had\s+done\s+(\w+ing)\b`, Replacement: "${1} had finished ${2}"},
	{Pattern: `\bI\s+have\s+done\s+playing\b`, Replacement: "I have finished playing"},
	{Pattern: `\bI\s+have\s+done\s+(\w+ing)\b`, Replacement: "I have finished ${1}"},

	// articles
	// vowel letters sounding as consonants ("a university", "a one", "a euro") are left as they are.
	{Pattern: `\b(a)\s+([ai][a-z]*|e[a-tv-z][a-z]*|o[a-mo-z][a-z]*|on[abd-df-z][a-z]*|u[bcdfghjklmnpqrstvwxyz]{2}[a-z]*)\b`, Replacement: "an ${2}"},
	{Pattern: `\b(an)\s+([bcdfghjklmnpqrstvwxyz][a-z]*)\b`, Replacement: "a ${2}"},

	// contractions
	{Pattern: `\b(do not|don't)\b`, Replacement: "don't"},
	{Pattern: `\b(does not|doesn't)\b`, Replacement: "doesn't"},
	{Pattern: `\b(can not|cannot|can't)\b`, Replacement: "can't"},
	{Pattern: `\b(will not|won't)\b`, Replacement: "won't"},
	{Pattern: `\b(should not|shouldn't)\b`, Replacement: "shouldn't"},
	{Pattern: `\b(would not|wouldn't)\b`, Replacement: "wouldn't"},
	{Pattern: `\b(could not|couldn't)\b`, Replacement: "couldn't"},
	{Pattern: `\b(has not|hasn't)\b`, Replacement: "hasn't"},
	{Pattern: `\b(have not|haven't)\b`, Replacement: "haven't"},
	{Pattern: `\b(had not|hadn't)\b`, Replacement: "hadn't"},
	{Pattern: `\b(is not|isn't)\b`, Replacement: "isn't"},
	{Pattern: `\b(are not|aren't)\b`, Replacement: "aren't"},
	{Pattern: `\b(was not|wasn't)\b`, Replacement: "wasn't"},
	{Pattern: `\b(were not|weren't)\b`, Replacement: "weren't"},

	// contractions without apostrophe
	{Pattern: `\b(dont)\b`, Replacement: "don't"},
	{Pattern: `\b(doesnt)\b`, Replacement: "doesn't"},
	{Pattern: `\b(cant)\b`, Replacement: "can't"},
	{Pattern: `\b(wont)\b`, Replacement: "won't"},
	{Pattern: `\b(shouldnt)\b`, Replacement: "shouldn't"},
	{Pattern: `\b(wouldnt)\b`, Replacement: "wouldn't"},
	{Pattern: `\b(couldnt)\b`, Replacement: "couldn't"},
	{Pattern: `\b(hasnt)\b`, Replacement: "hasn't"},
	{Pattern: `\b(havent)\b`, Replacement: "haven't"},
	{Pattern: `\b(hadnt)\b`, Replacement: "hadn't"},
	{Pattern: `\b(isnt)\b`, Replacement: "isn't"},
	{Pattern: `\b(arent)\b`, Replacement: "aren't"},
	{Pattern: `\b(wasnt)\b`, Replacement: "wasn't"},
	{Pattern: `\b(werent)\b`, Replacement: "weren't"},

	// capitalization of words
	{Pattern: `\b(i)\b`, Replacement: "I"},
	{Pattern: `\b(hello|hi)\b`, Replacement: "Hello"},
	{Pattern: `\b(bye|goodbye)\b`, Replacement: "Goodbye"},

	// pronoun pairs
	{Pattern: `\b(me)\s+and\s+(him|her|them)\b`, Replacement: "${2} and I"},
	{Pattern: `\b(him|her|them)\s+and\s+(me)\b`, Replacement: "${1} and I"},

	// informal phrases
	{Pattern: `\b(gonna)\b`, Replacement: "going to"},
	{Pattern: `\b(wanna)\b`, Replacement: "want to"},
	{Pattern: `\b(gotta)\b`, Replacement: "got to"},
	{Pattern: `\b(lemme)\b`, Replacement: "let me"},
	{Pattern: `\b(gimme)\b`, Replacement: "give me"},

	// word confusions
	{Pattern: `\b(their)\s+(there)\b`, Replacement: "they're there"},
	{Pattern: `\b(there)\s+(their)\b`, Replacement: "there they're"},
	{Pattern: `\b(your)\s+(you're)\b`, Replacement: "you're"},
	{Pattern: `\b(you're)\s+(your)\b`, Replacement: "your"},
	{Pattern: `\b(its)\s+(it's)\b`, Replacement: "it's"},
	{Pattern: `\b(it's)\s+(its)\b`, Replacement: "its"},

	// punctuation spacing
	{Pattern: `\s+([.!?])`, Replacement: "${1}"},
	{Pattern: `([.!?])\s*([a-z])`, Replacement: "${1} ${2}"},
	{Pattern: `\s+`, Replacement: " "},
}

// DefaultTable returns compiled DefaultRules.
func DefaultTable() *Table {
	return MustTable(DefaultRules...)
}
