package progression

import "math"

// PassThreshold 测验与演练共用的及格线（百分制）
const PassThreshold = 70

type Result struct {
	Score   int  `json:"score"`
	Total   int  `json:"total"`
	Correct int  `json:"correct"`
	Passed  bool `json:"passed"`
}

// Evaluate 根据每题的正误计算百分制得分。空输入得 0 分，不视为错误。
// 纯函数，所有题目等权，没有部分得分。
func Evaluate(correct []bool) Result {
	total := len(correct)
	if total == 0 {
		return Result{Score: 0, Total: 0, Correct: 0, Passed: false}
	}

	n := 0
	for _, c := range correct {
		if c {
			n++
		}
	}

	score := int(math.Round(float64(n) / float64(total) * 100))
	return Result{
		Score:   score,
		Total:   total,
		Correct: n,
		Passed:  score >= PassThreshold,
	}
}
