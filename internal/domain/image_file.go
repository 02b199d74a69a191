package domain

// ImageFile 描述一次扫描得到的图片文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - AbsPath 必须是 clean + absolute
// - Name 是目录内的文件名（含扩展名），同时也是目标目录下的输出名
type ImageFile struct {
	AbsPath string
	Name    string // filename with ext
	Ext     string // ".jpg"
	Size    int64
}
