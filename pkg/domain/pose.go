package domain

// PoseInstructions は UI やCLIで提示するポーズ指示のプリセットです。
var PoseInstructions = []string{
	"Full frontal view, hands on hips",
	"Slightly turned, 3/4 view",
	"Side profile view",
	"Jumping in the air, mid-action shot",
	"Walking towards camera",
	"Leaning against a wall",
}
