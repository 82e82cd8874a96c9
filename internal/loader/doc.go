// Package loader is the ingestion collaborator of the attendance pipeline.
// It decodes uploaded punch exports (trying utf-8, big5, gb2312, latin-1
// and cp1252 in that order), parses them as CSV and merges multiple files
// into one logical PunchTable for processing.
//
// The loader performs all I/O-adjacent work so the processing core stays
// pure: the core receives already-decoded tabular text and never touches
// bytes or files.
package loader
