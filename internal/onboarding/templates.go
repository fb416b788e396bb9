package onboarding

const banner = `╔════════════════════════════════════════════════════════════════╗
║  %-62s║
╚════════════════════════════════════════════════════════════════╝
`

// SetupWizardWelcome is shown before the first question
const SetupWizardWelcome = `
📒 Chào mừng đến với Lifetrack!

Lifetrack ghi lại chi tiêu, thu nhập và lịch hẹn từ những câu tiếng Việt
bình thường, ví dụ "chi 50k ăn trưa" hay "họp team 3h chiều mai".

Trình cài đặt sẽ hỏi vài câu rồi tạo file cấu hình. Nhấn Enter để giữ
giá trị mặc định.
`

// SetupCompleteMessage is shown after the config file was written
const SetupCompleteMessage = `
✅ Cài đặt hoàn tất!

Thư mục dữ liệu: {{.DataDir}}
File cấu hình:   {{.ConfigPath}}

Bắt đầu:
  lifetrack chat            Trò chuyện trong terminal
  lifetrack -m "cafe 30k"   Ghi nhanh một câu
  lifetrack                 Chạy server, nhắc lịch và bot
`

const configHeader = `# Lifetrack configuration
# Generated on %s
# Every key can be overridden with LIFETRACK_<SECTION>_<KEY> environment variables.

`
