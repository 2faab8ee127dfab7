package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", Escape("<b>hi</b>"))
	assert.Equal(t, "a &amp; b", Escape("a & b"))
	assert.Equal(t, "plain", Escape("  plain  "))
}

func TestMonthsWord(t *testing.T) {
	cases := map[int]string{
		1:  "месяц",
		2:  "месяца",
		3:  "месяца",
		4:  "месяца",
		5:  "месяцев",
		11: "месяцев",
		12: "месяцев",
		21: "месяц",
		22: "месяца",
		25: "месяцев",
	}
	for months, want := range cases {
		assert.Equal(t, want, MonthsWord(months), "months=%d", months)
	}
}

func TestSenderNameFallback(t *testing.T) {
	assert.Equal(t, "Анна", SenderName("Анна"))
	assert.Equal(t, "Неизвестный", SenderName(""))
	assert.Equal(t, "Неизвестный", SenderName("   "))
	assert.Equal(t, "&lt;x&gt;", SenderName("<x>"))
}
