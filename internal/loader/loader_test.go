package loader

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleCSV = "姓名,考勤號碼,日期時間,簽到/退\n王小明,001,2024-01-15 08:30,簽到\n王小明,001,2024-01-15 17:30,簽退\n"

func TestDecodeUTF8(t *testing.T) {
	content, charset, err := Decode("punches.csv", []byte(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", charset)
	assert.Equal(t, sampleCSV, content)
}

func TestDecodeUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)
	content, charset, err := Decode("punches.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", charset)
	assert.Equal(t, sampleCSV, content)
}

func TestDecodeBig5(t *testing.T) {
	encoded, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(sampleCSV))
	require.NoError(t, err)

	content, charset, err := Decode("punches.csv", encoded)
	require.NoError(t, err)
	assert.Equal(t, "big5", charset)
	assert.Equal(t, sampleCSV, content)
}

func TestDecodeGBK(t *testing.T) {
	// 简体 text is not valid big5, so detection falls through to gb2312.
	simplified := "姓名,考勤号码,日期时间,签到/退\n王小明,001,2024-01-15 08:30,签到\n"
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(simplified))
	require.NoError(t, err)

	// GBK byte sequences can also be structurally valid big5, so the
	// detected charset depends on the bytes; either way decoding must
	// succeed without replacement runes, exactly like the try-chain in
	// the upstream exports' tooling.
	content, charset, err := Decode("punches.csv", encoded)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, []string{"big5", "gb2312"}, charset)
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// Arbitrary high bytes that are neither valid utf-8 nor a clean CJK
	// sequence end up decoded as latin-1, never rejected.
	data := []byte{'n', 'a', 'm', 'e', ',', 0xE9, '\n'}
	content, charset, err := Decode("punches.csv", data)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, []string{"big5", "gb2312", "latin-1"}, charset)
}

func TestLoadSingleFile(t *testing.T) {
	l := New(testLogger())
	table, failed, err := l.Load(context.Background(), []File{
		{Name: "punches.csv", Data: []byte(sampleCSV)},
	})

	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Equal(t, []string{"姓名", "考勤號碼", "日期時間", "簽到/退"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-15 08:30", table.Rows[0][2])
}

func TestLoadMergesMultipleFiles(t *testing.T) {
	second := "姓名,考勤號碼,日期時間,簽到/退\n陳品璇,101,2024-01-15 11:15,簽到\n"

	l := New(testLogger())
	table, failed, err := l.Load(context.Background(), []File{
		{Name: "a.csv", Data: []byte(sampleCSV)},
		{Name: "b.csv", Data: []byte(second)},
	})

	require.NoError(t, err)
	assert.Empty(t, failed)
	// duplicate header row of the second file is skipped
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "陳品璇", table.Rows[2][0])
}

func TestLoadMergeIsDeterministic(t *testing.T) {
	second := "姓名,考勤號碼,日期時間,簽到/退\n陳品璇,101,2024-01-15 11:15,簽到\n"
	files := []File{
		{Name: "a.csv", Data: []byte(sampleCSV)},
		{Name: "b.csv", Data: []byte(second)},
	}

	l := New(testLogger())
	first, _, err := l.Load(context.Background(), files)
	require.NoError(t, err)
	repeat, _, err := l.Load(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, first, repeat)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	content := "姓名,考勤號碼,日期時間,簽到/退\n\n王小明,001,2024-01-15 08:30,簽到\n\n"
	l := New(testLogger())
	table, _, err := l.Load(context.Background(), []File{{Name: "a.csv", Data: []byte(content)}})

	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestLoadCRLF(t *testing.T) {
	content := "姓名,考勤號碼,日期時間,簽到/退\r\n王小明,001,2024-01-15 08:30,簽到\r\n"
	l := New(testLogger())
	table, _, err := l.Load(context.Background(), []File{{Name: "a.csv", Data: []byte(content)}})

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "簽到", table.Rows[0][3])
}

func TestLoadNoFiles(t *testing.T) {
	l := New(testLogger())
	_, _, err := l.Load(context.Background(), nil)
	require.Error(t, err)
}
