package cli

import (
	"fmt"
	"io"
)

func PrintExtendedHelp(out io.Writer) {
	fmt.Fprint(out, `Lifetrack - ghi chi tiêu, thu nhập và lịch hẹn bằng tiếng Việt

Usage:
  lifetrack [flags]                 Chạy server (API, nhắc lịch, bot)
  lifetrack chat                    Trò chuyện trong terminal
  lifetrack -m "<câu>"              Ghi nhanh một câu
  lifetrack parse "<câu>"           Xem kết quả phân tích, không lưu
  lifetrack stats [YYYY-MM]         Thống kê tháng
  lifetrack import <file> [-o out]  Ghi từng dòng của một file
  lifetrack init                    Tạo file cấu hình
  lifetrack status                  Xem cấu hình hiện tại
  lifetrack doctor                  Kiểm tra hệ thống
  lifetrack version                 Phiên bản

Flags:
  -config <path>   Đường dẫn file cấu hình
  -data <dir>      Thư mục dữ liệu
  -m <câu>         Ghi nhanh một câu

Ví dụ:
  lifetrack -m "chi 50k ăn trưa"
  lifetrack -m "họp team 3h chiều mai"
  lifetrack stats 2025-03
`)
}

func PrintImportHelp(out io.Writer) {
	fmt.Fprint(out, `Usage: lifetrack import <file> [-o report] [-c concurrency]

Mỗi dòng của file văn bản là một câu; dòng trống và dòng bắt đầu bằng # bị bỏ qua.
File .json/.jsonl chứa các object {"id": "...", "message": "..."}.
Báo cáo .json được ghi dạng JSON, còn lại dạng văn bản.
`)
}

func PrintInteractiveHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Lệnh:")
	fmt.Fprintln(out, "  help, h     - Hướng dẫn")
	fmt.Fprintln(out, "  clear, cls  - Xóa màn hình")
	fmt.Fprintln(out, "  exit, quit  - Thoát")
	fmt.Fprintln(out)
}
