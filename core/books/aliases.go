package books

// alias pairs a lowercased, period-free spelling with its canonical name.
type alias struct {
	key       string
	canonical string
}

// aliasTable is ordered. When the same key appears twice the first entry
// wins; later duplicates are kept here so the ambiguity stays visible.
// Known duplicates: "mat" (Matthew, then Acts), "gen", "rut", "joh", "john",
// "ezra", "ezr", "neh", "est", "isa", "eze", "dan", "hos", "amo", "oba",
// "nah", "hab", "hag", "mal", "mar", "luk", "1sam", "1tim", "2tim",
// "1pet", "2pet", "tito".
var aliasTable = []alias{
	// English: full names and three letter forms
	{"gen", "Genesis"},
	{"genesis", "Genesis"},
	{"exo", "Exodus"},
	{"exodus", "Exodus"},
	{"lev", "Leviticus"},
	{"leviticus", "Leviticus"},
	{"num", "Numbers"},
	{"numbers", "Numbers"},
	{"deu", "Deuteronomy"},
	{"deuteronomy", "Deuteronomy"},
	{"jos", "Joshua"},
	{"joshua", "Joshua"},
	{"jdg", "Judges"},
	{"judges", "Judges"},
	{"rut", "Ruth"},
	{"ruth", "Ruth"},
	{"1sa", "1 Samuel"},
	{"1 samuel", "1 Samuel"},
	{"2sa", "2 Samuel"},
	{"2 samuel", "2 Samuel"},
	{"1ki", "1 Kings"},
	{"1 kings", "1 Kings"},
	{"2ki", "2 Kings"},
	{"2 kings", "2 Kings"},
	{"1ch", "1 Chronicles"},
	{"1 chronicles", "1 Chronicles"},
	{"2ch", "2 Chronicles"},
	{"2 chronicles", "2 Chronicles"},
	{"ezr", "Ezra"},
	{"ezra", "Ezra"},
	{"neh", "Nehemiah"},
	{"nehemiah", "Nehemiah"},
	{"est", "Esther"},
	{"esther", "Esther"},
	{"job", "Job"},
	{"ps", "Psalms"},
	{"psa", "Psalms"},
	{"psalm", "Psalms"},
	{"psalms", "Psalms"},
	{"pro", "Proverbs"},
	{"proverbs", "Proverbs"},
	{"ecc", "Ecclesiastes"},
	{"ecclesiastes", "Ecclesiastes"},
	{"son", "Song of Solomon"},
	{"song", "Song of Solomon"},
	{"isa", "Isaiah"},
	{"isaiah", "Isaiah"},
	{"jer", "Jeremiah"},
	{"jeremiah", "Jeremiah"},
	{"lam", "Lamentations"},
	{"lamentations", "Lamentations"},
	{"eze", "Ezekiel"},
	{"ezekiel", "Ezekiel"},
	{"dan", "Daniel"},
	{"daniel", "Daniel"},
	{"hos", "Hosea"},
	{"hosea", "Hosea"},
	{"joe", "Joel"},
	{"joel", "Joel"},
	{"amo", "Amos"},
	{"amos", "Amos"},
	{"oba", "Obadiah"},
	{"obadiah", "Obadiah"},
	{"jon", "Jonah"},
	{"jonah", "Jonah"},
	{"mic", "Micah"},
	{"micah", "Micah"},
	{"nah", "Nahum"},
	{"nahum", "Nahum"},
	{"hab", "Habakkuk"},
	{"habakkuk", "Habakkuk"},
	{"zep", "Zephaniah"},
	{"zephaniah", "Zephaniah"},
	{"hag", "Haggai"},
	{"haggai", "Haggai"},
	{"zec", "Zechariah"},
	{"zechariah", "Zechariah"},
	{"mal", "Malachi"},
	{"malachi", "Malachi"},
	{"mat", "Matthew"},
	{"matt", "Matthew"},
	{"matthew", "Matthew"},
	{"mar", "Mark"},
	{"mark", "Mark"},
	{"luk", "Luke"},
	{"luke", "Luke"},
	{"joh", "John"},
	{"john", "John"},
	{"act", "Acts"},
	{"acts", "Acts"},
	{"rom", "Romans"},
	{"romans", "Romans"},
	{"1co", "1 Corinthians"},
	{"1 corinthians", "1 Corinthians"},
	{"2co", "2 Corinthians"},
	{"2 corinthians", "2 Corinthians"},
	{"gal", "Galatians"},
	{"galatians", "Galatians"},
	{"eph", "Ephesians"},
	{"ephesians", "Ephesians"},
	{"phi", "Philippians"},
	{"philippians", "Philippians"},
	{"col", "Colossians"},
	{"colossians", "Colossians"},
	{"1th", "1 Thessalonians"},
	{"1 thessalonians", "1 Thessalonians"},
	{"2th", "2 Thessalonians"},
	{"2 thessalonians", "2 Thessalonians"},
	{"1ti", "1 Timothy"},
	{"1 timothy", "1 Timothy"},
	{"2ti", "2 Timothy"},
	{"2 timothy", "2 Timothy"},
	{"tit", "Titus"},
	{"titus", "Titus"},
	{"phm", "Philemon"},
	{"philemon", "Philemon"},
	{"heb", "Hebrews"},
	{"hebrews", "Hebrews"},
	{"jam", "James"},
	{"james", "James"},
	{"1pe", "1 Peter"},
	{"1 peter", "1 Peter"},
	{"2pe", "2 Peter"},
	{"2 peter", "2 Peter"},
	{"1jo", "1 John"},
	{"1 john", "1 John"},
	{"2jo", "2 John"},
	{"2 john", "2 John"},
	{"3jo", "3 John"},
	{"3 john", "3 John"},
	{"jud", "Jude"},
	{"jude", "Jude"},

	// English: numbered books written without the number default to the first
	{"sam", "1 Samuel"},
	{"samuel", "1 Samuel"},
	{"1sam", "1 Samuel"},
	{"2sam", "2 Samuel"},
	{"kin", "1 Kings"},
	{"kings", "1 Kings"},
	{"1kings", "1 Kings"},
	{"2kings", "2 Kings"},
	{"chr", "1 Chronicles"},
	{"chronicles", "1 Chronicles"},
	{"1chron", "1 Chronicles"},
	{"2chron", "2 Chronicles"},
	{"cor", "1 Corinthians"},
	{"cori", "1 Corinthians"},
	{"corinthians", "1 Corinthians"},
	{"1cor", "1 Corinthians"},
	{"2cor", "2 Corinthians"},
	{"thess", "1 Thessalonians"},
	{"thessalonians", "1 Thessalonians"},
	{"1thess", "1 Thessalonians"},
	{"2thess", "2 Thessalonians"},
	{"tim", "1 Timothy"},
	{"timothy", "1 Timothy"},
	{"1tim", "1 Timothy"},
	{"2tim", "2 Timothy"},
	{"pet", "1 Peter"},
	{"peter", "1 Peter"},
	{"1pet", "1 Peter"},
	{"2pet", "2 Peter"},
	{"joh", "John"},
	{"john", "John"},
	{"1john", "1 John"},
	{"2john", "2 John"},
	{"3john", "3 John"},
	{"1joh", "1 John"},
	{"2joh", "2 John"},
	{"3joh", "3 John"},
	{"rev", "Revelation"},
	{"revelation", "Revelation"},

	// English: SBL/OSIS style abbreviations and spaced numbered forms
	{"ex", "Exodus"},
	{"exod", "Exodus"},
	{"deut", "Deuteronomy"},
	{"josh", "Joshua"},
	{"judg", "Judges"},
	{"1 sam", "1 Samuel"},
	{"2 sam", "2 Samuel"},
	{"1kgs", "1 Kings"},
	{"1 kgs", "1 Kings"},
	{"2kgs", "2 Kings"},
	{"2 kgs", "2 Kings"},
	{"1chr", "1 Chronicles"},
	{"1 chr", "1 Chronicles"},
	{"2chr", "2 Chronicles"},
	{"2 chr", "2 Chronicles"},
	{"esth", "Esther"},
	{"prov", "Proverbs"},
	{"eccl", "Ecclesiastes"},
	{"song of solomon", "Song of Solomon"},
	{"song of songs", "Song of Solomon"},
	{"sos", "Song of Solomon"},
	{"canticles", "Song of Solomon"},
	{"ezek", "Ezekiel"},
	{"obad", "Obadiah"},
	{"zeph", "Zephaniah"},
	{"zech", "Zechariah"},
	{"mt", "Matthew"},
	{"mrk", "Mark"},
	{"mk", "Mark"},
	{"lk", "Luke"},
	{"jn", "John"},
	{"1 cor", "1 Corinthians"},
	{"2 cor", "2 Corinthians"},
	{"phil", "Philippians"},
	{"1 thess", "1 Thessalonians"},
	{"2 thess", "2 Thessalonians"},
	{"1 tim", "1 Timothy"},
	{"2 tim", "2 Timothy"},
	{"phlm", "Philemon"},
	{"jas", "James"},
	{"1 pet", "1 Peter"},
	{"2 pet", "2 Peter"},
	{"1jn", "1 John"},
	{"1 jn", "1 John"},
	{"2jn", "2 John"},
	{"2 jn", "2 John"},
	{"3jn", "3 John"},
	{"3 jn", "3 John"},

	// Swahili
	{"gen", "Genesis"},
	{"mwanzo", "Genesis"},
	{"mwan", "Genesis"},
	{"kutoka", "Exodus"},
	{"kut", "Exodus"},
	{"walawi", "Leviticus"},
	{"wal", "Leviticus"},
	{"hesabu", "Numbers"},
	{"hes", "Numbers"},
	{"kumbukumbu", "Deuteronomy"},
	{"kum", "Deuteronomy"},
	{"kumbukumbu la torati", "Deuteronomy"},
	{"yoshua", "Joshua"},
	{"yos", "Joshua"},
	{"waamuzi", "Judges"},
	{"waa", "Judges"},
	{"rutu", "Ruth"},
	{"rut", "Ruth"},
	{"1 samweli", "1 Samuel"},
	{"1samweli", "1 Samuel"},
	{"1sam", "1 Samuel"},
	{"2 samweli", "2 Samuel"},
	{"2samweli", "2 Samuel"},
	{"1 wafalme", "1 Kings"},
	{"1waf", "1 Kings"},
	{"1wafalme", "1 Kings"},
	{"2 wafalme", "2 Kings"},
	{"2waf", "2 Kings"},
	{"2wafalme", "2 Kings"},
	{"1 mambo ya nyakati", "1 Chronicles"},
	{"1mambo", "1 Chronicles"},
	{"2 mambo ya nyakati", "2 Chronicles"},
	{"2mambo", "2 Chronicles"},
	{"ezra", "Ezra"},
	{"ezr", "Ezra"},
	{"nehemia", "Nehemiah"},
	{"neh", "Nehemiah"},
	{"esta", "Esther"},
	{"est", "Esther"},
	{"ayubu", "Job"},
	{"ayu", "Job"},
	{"zaburi", "Psalms"},
	{"zab", "Psalms"},
	{"mithali", "Proverbs"},
	{"mit", "Proverbs"},
	{"mhubiri", "Ecclesiastes"},
	{"mhu", "Ecclesiastes"},
	{"wimbo ulio bora", "Song of Solomon"},
	{"wim", "Song of Solomon"},
	{"isaya", "Isaiah"},
	{"isa", "Isaiah"},
	{"yeremia", "Jeremiah"},
	{"yer", "Jeremiah"},
	{"maombolezo", "Lamentations"},
	{"mao", "Lamentations"},
	{"ezekieli", "Ezekiel"},
	{"eze", "Ezekiel"},
	{"danieli", "Daniel"},
	{"dan", "Daniel"},
	{"hotea", "Hosea"},
	{"hosea", "Hosea"},
	{"hos", "Hosea"},
	{"yoeli", "Joel"},
	{"yoe", "Joel"},
	{"amosi", "Amos"},
	{"amo", "Amos"},
	{"obadia", "Obadiah"},
	{"oba", "Obadiah"},
	{"yona", "Jonah"},
	{"yon", "Jonah"},
	{"mika", "Micah"},
	{"mik", "Micah"},
	{"nahumu", "Nahum"},
	{"nah", "Nahum"},
	{"habakuki", "Habakkuk"},
	{"hab", "Habakkuk"},
	{"sefania", "Zephaniah"},
	{"sef", "Zephaniah"},
	{"hagai", "Haggai"},
	{"hag", "Haggai"},
	{"zakaria", "Zechariah"},
	{"zak", "Zechariah"},
	{"malaki", "Malachi"},
	{"mal", "Malachi"},
	{"mathayo", "Matthew"},
	{"mat", "Matthew"},
	{"marko", "Mark"},
	{"mar", "Mark"},
	{"luka", "Luke"},
	{"luk", "Luke"},
	{"yohana", "John"},
	{"yoh", "John"},
	{"matendo", "Acts"},
	{"mat", "Acts"},
	{"matendo ya mitume", "Acts"},
	{"warumi", "Romans"},
	{"war", "Romans"},
	{"1 wakorintho", "1 Corinthians"},
	{"1wak", "1 Corinthians"},
	{"2 wakorintho", "2 Corinthians"},
	{"2wak", "2 Corinthians"},
	{"wagalatia", "Galatians"},
	{"wag", "Galatians"},
	{"waefeso", "Ephesians"},
	{"waef", "Ephesians"},
	{"wafilipi", "Philippians"},
	{"waf", "Philippians"},
	{"wakolosai", "Colossians"},
	{"wak", "Colossians"},
	{"1 wathesalonike", "1 Thessalonians"},
	{"1wat", "1 Thessalonians"},
	{"2 wathesalonike", "2 Thessalonians"},
	{"2wat", "2 Thessalonians"},
	{"1 timotheo", "1 Timothy"},
	{"1tim", "1 Timothy"},
	{"2 timotheo", "2 Timothy"},
	{"2tim", "2 Timothy"},
	{"tito", "Titus"},
	{"tito", "Titus"},
	{"filemoni", "Philemon"},
	{"fil", "Philemon"},
	{"waebrania", "Hebrews"},
	{"wae", "Hebrews"},
	{"yakobo", "James"},
	{"yak", "James"},
	{"1 petro", "1 Peter"},
	{"1pet", "1 Peter"},
	{"2 petro", "2 Peter"},
	{"2pet", "2 Peter"},
	{"1 yohana", "1 John"},
	{"1yoh", "1 John"},
	{"2 yohana", "2 John"},
	{"2yoh", "2 John"},
	{"3 yohana", "3 John"},
	{"3yoh", "3 John"},
	{"yuda", "Jude"},
	{"yud", "Jude"},
	{"ufunuo", "Revelation"},
	{"ufu", "Revelation"},
	{"ufunuo wa yohana", "Revelation"},
}
