package store

// tableDefs lists every table this engine owns, in dependency order so
// CREATE TABLE statements never reference a table that doesn't exist
// yet. Foreign keys that participate in a cascade carry
// "ON DELETE CASCADE"; Domain is intentionally NOT cascaded from
// anything (it's cross-land, per spec.md §3).
var tableDefs = []struct {
	name string
	ddl  string
}{
	{"lands", `
	CREATE TABLE IF NOT EXISTS lands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		lang TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL
	)`},
	{"domains", `
	CREATE TABLE IF NOT EXISTS domains (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`},
	{"words", `
	CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		term TEXT NOT NULL UNIQUE
	)`},
	{"land_dictionary", `
	CREATE TABLE IF NOT EXISTS land_dictionary (
		land_id INTEGER NOT NULL REFERENCES lands(id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
		PRIMARY KEY (land_id, word_id)
	)`},
	{"expressions", `
	CREATE TABLE IF NOT EXISTS expressions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		land_id INTEGER NOT NULL REFERENCES lands(id) ON DELETE CASCADE,
		domain_id INTEGER NOT NULL REFERENCES domains(id),
		url TEXT NOT NULL,
		depth INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME,
		readable_at DATETIME,
		http_status TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		raw_html TEXT NOT NULL DEFAULT '',
		readable TEXT NOT NULL DEFAULT '',
		relevance INTEGER NOT NULL DEFAULT 0,
		validllm TEXT NOT NULL DEFAULT '',
		validmodel TEXT NOT NULL DEFAULT '',
		seorank TEXT,
		UNIQUE (land_id, url)
	)`},
	{"expression_links", `
	CREATE TABLE IF NOT EXISTS expression_links (
		source_id INTEGER NOT NULL REFERENCES expressions(id) ON DELETE CASCADE,
		target_id INTEGER NOT NULL REFERENCES expressions(id) ON DELETE CASCADE,
		PRIMARY KEY (source_id, target_id)
	)`},
	{"media", `
	CREATE TABLE IF NOT EXISTS media (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expression_id INTEGER NOT NULL REFERENCES expressions(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		url TEXT NOT NULL,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		file_size INTEGER NOT NULL DEFAULT 0,
		format TEXT NOT NULL DEFAULT '',
		image_hash TEXT NOT NULL DEFAULT '',
		dominant_colors TEXT,
		n_dominant_colors INTEGER NOT NULL DEFAULT 0,
		exif_data TEXT,
		analyzed_at DATETIME,
		UNIQUE (expression_id, url)
	)`},
	{"paragraphs", `
	CREATE TABLE IF NOT EXISTS paragraphs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expression_id INTEGER NOT NULL REFERENCES expressions(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		text_hash TEXT NOT NULL UNIQUE,
		position INTEGER NOT NULL DEFAULT 0
	)`},
	{"paragraph_embeddings", `
	CREATE TABLE IF NOT EXISTS paragraph_embeddings (
		paragraph_id INTEGER PRIMARY KEY REFERENCES paragraphs(id) ON DELETE CASCADE,
		vector BLOB NOT NULL,
		model_name TEXT NOT NULL,
		dimension INTEGER NOT NULL
	)`},
	{"paragraph_similarities", `
	CREATE TABLE IF NOT EXISTS paragraph_similarities (
		source_paragraph_id INTEGER NOT NULL REFERENCES paragraphs(id) ON DELETE CASCADE,
		target_paragraph_id INTEGER NOT NULL REFERENCES paragraphs(id) ON DELETE CASCADE,
		method TEXT NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (source_paragraph_id, target_paragraph_id, method)
	)`},
	{"tags", `
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		land_id INTEGER NOT NULL REFERENCES lands(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		sorting INTEGER NOT NULL DEFAULT 0,
		parent_id INTEGER REFERENCES tags(id) ON DELETE CASCADE
	)`},
	{"tagged_content", `
	CREATE TABLE IF NOT EXISTS tagged_content (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		expression_id INTEGER NOT NULL REFERENCES expressions(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		from_char INTEGER NOT NULL,
		to_char INTEGER NOT NULL
	)`},
}

// dropOrder is tableDefs in reverse, so a full Setup can drop tables
// without violating a still-enabled foreign key constraint.
func dropOrder() []string {
	names := make([]string, len(tableDefs))
	for i, t := range tableDefs {
		names[len(tableDefs)-1-i] = t.name
	}
	return names
}
