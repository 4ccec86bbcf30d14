package catalogdata

import "embed"

// FS contains the built-in accelerator, model and engine tables from data/.
//
//go:embed data/*.yaml
var FS embed.FS

// Dir is the directory inside FS holding the tables.
const Dir = "data"
