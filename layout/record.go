package layout

// Record 是表格中的一行：标签 + 值。Value 可包含换行，表示多个子行。
// Emphasized 中的子串在值中出现时以粗体绘制。
type Record struct {
	Label      string   `json:"label"`
	Value      string   `json:"value"`
	Emphasized []string `json:"emphasized,omitempty"`
}

// Document 是一次生成所需的全部输入，构造后不再修改。
type Document struct {
	Records []Record
	Meta    DocumentMeta
}
