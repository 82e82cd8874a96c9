// Package exporter renders the attendance result table for delivery.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Renders the fixed 11-column attendance layout to CSV
// files, Excel workbooks, or any io.Writer for HTTP streaming.
//
// Row formatting helpers: dates as YYYY/MM/DD, times as HH:MM, hours
// with two decimal places, matching what the payroll import expects.
package exporter
