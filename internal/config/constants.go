package config

import "time"

// Application constants for the attendance conversion system
const (
	// Application Info
	AppName    = "Attend Pulse"
	AppVersion = "1.0.0"

	// Config file (relative to working directory unless overridden)
	DefaultConfigFile = "attendance.yaml"

	// Processing defaults
	DefaultStartHour     = 8
	DefaultStartMinute   = 0
	DefaultBreakMinGap   = 30  // minutes
	DefaultBreakMaxGap   = 120 // minutes
	MinimumBreakMinutes  = 60  // floor applied to every declared break
	DefaultStandardHours = 8.0 // overtime threshold

	// Break detection window: the leading punch of a candidate pair must
	// fall inside this time-of-day range
	BreakWindowStart = "10:30"
	BreakWindowEnd   = "14:30"

	// Fallback break: synthesized this long after check-in when no pair
	// qualifies
	FallbackBreakOffset = 4 * time.Hour

	// Output formats
	OutputDateFormat = "2006/01/02"
	OutputTimeFormat = "15:04"
	ExcelSheetName   = "出勤記錄"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultUploadsDir = "data/uploads"
	DefaultReportsDir = "data/reports"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second
)

// OutputColumns is the fixed header order of the result table. Downstream
// payroll import depends on this exact sequence.
var OutputColumns = []string{
	"日期", "姓名", "考勤號碼", "上班時間", "下班時間",
	"休息開始", "休息結束", "休息分鐘數", "實際工時", "加班時數", "備註",
}
