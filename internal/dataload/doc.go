// Package dataload reads the four source tables of the HS panel pipeline and
// turns them into typed records: the trade panel, the HS code dictionary, the
// fine-to-coarse crosswalk, and the industry title table.
//
// # Architecture
//
// One Loader with a method per input:
//
// 1. LoadPanel: product-year trade CSV with nullable numerics
// 2. LoadDictionary: code→label JSON in either map or array shape
// 3. LoadCrosswalk: 6-digit→industry weight table from CSV or XLSX
// 4. LoadTitles: industry→title CSV with known header drift
//
// AttachLabels joins dictionary labels onto panel records and reports the
// codes it could not label.
//
// # Header Drift
//
// Real exports of these tables rename columns between vintages. Each loader
// resolves every logical field against a fixed list of known header variants,
// case-insensitively; when no variant matches it fails with a schema
// mismatch listing what was tried. It never guesses beyond the known lists.
//
// # Missing Values
//
// Numeric cells go through domain.ParseNullFloat, so empty cells and "NA"
// markers stay missing rather than becoming zero. Rows whose key fields are
// unusable (no product code, unparseable year) are skipped and counted, not
// silently dropped.
//
// # Error Handling
//
//	- A source file that cannot be opened is a MissingInput error (fatal)
//	- An unresolvable column is a SchemaMismatch error (fatal)
//	- A malformed data row is skipped and counted in the load stats
package dataload
