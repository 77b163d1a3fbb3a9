package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     []string
	}{
		{
			name:     "empty input",
			messages: nil,
			want:     nil,
		},
		{
			name:     "stopwords and short tokens dropped",
			messages: []string{"그리고 지금 밥 먹었어요 정말"},
			want:     []string{"먹었어요"},
		},
		{
			name:     "digit tokens dropped",
			messages: []string{"어제 3시에 병원에 갔어요"},
			want:     []string{"어제", "병원에", "갔어요"},
		},
		{
			name: "recent messages weigh heavier",
			messages: []string{
				"산책 산책 산책",
				"바둑 이야기",
			},
			// 산책: 3 mentions × weight 1 = 3, 바둑: 1 × 2 = 2, but
			// 바둑/이야기 tie on 2 and keep first-seen order
			want: []string{"산책", "바둑", "이야기"},
		},
		{
			name: "only last five messages count",
			messages: []string{
				"오래된 이야기입니다",
				"하나", "둘과 셋", "넷과 다섯", "여섯과 일곱", "여덟과 아홉",
			},
			want: []string{"여덟과", "아홉", "여섯과", "일곱", "넷과"},
		},
		{
			name:     "punctuation stripped",
			messages: []string{`"산책?" 좋아요, (정원) 가꾸기!`},
			want:     []string{"산책", "좋아요", "정원", "가꾸기"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.messages, 5))
		})
	}
}

func TestExtractKeywords_CapsAtMax(t *testing.T) {
	got := ExtractKeywords([]string{"가나 다라 마바 사아 자차 카타"}, 3)
	assert.Len(t, got, 3)
}

func TestExtractKeywords_TieKeepsFirstSeen(t *testing.T) {
	got := ExtractKeywords([]string{"바다 하늘 바다 하늘"}, 5)
	assert.Equal(t, []string{"바다", "하늘"}, got)
}
