package entity

// Document is a candidate input file picked up from the input folder.
type Document struct {
	Name       string `json:"name"`
	SourcePath string `json:"source_path"`
	FileExt    string `json:"file_ext"`
	FileSize   int64  `json:"file_size"`
	HashHex    string `json:"hash_hex,omitempty"`
}
