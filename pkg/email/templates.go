package email

const passwordResetTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Reset Your Password</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Verdana,sans-serif;background-color:#f4f5f7;">
  <table role="presentation" style="max-width:560px;margin:32px auto;background:#ffffff;border-radius:8px;">
    <tr><td style="background:#1f2937;padding:24px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:22px;">{{.AppName}}</h1>
    </td></tr>
    <tr><td style="padding:32px 28px;color:#374151;font-size:15px;line-height:1.6;">
      <h2 style="margin:0 0 16px 0;font-size:20px;color:#111827;">Reset your password</h2>
      <p>We received a request to reset the password for <strong>{{.Email}}</strong>.</p>
      <p>The link below expires in <strong>1 hour</strong>.</p>
      <p style="text-align:center;margin:28px 0;">
        <a href="{{.ResetURL}}" style="background:#2563eb;color:#ffffff;padding:12px 28px;border-radius:6px;text-decoration:none;font-weight:600;">Reset Password</a>
      </p>
      <p style="font-size:13px;color:#6b7280;">If you did not ask for this you can ignore this email.</p>
      <p style="font-size:13px;color:#6b7280;word-break:break-all;">{{.ResetURL}}</p>
    </td></tr>
  </table>
</body>
</html>
`

const invoiceTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Invoice {{.InvoiceNumber}}</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Verdana,sans-serif;background-color:#f4f5f7;">
  <table role="presentation" style="max-width:560px;margin:32px auto;background:#ffffff;border-radius:8px;">
    <tr><td style="background:#1f2937;padding:24px;">
      <h1 style="color:#ffffff;margin:0;font-size:20px;">{{.ShopName}}</h1>
    </td></tr>
    <tr><td style="padding:28px;color:#374151;font-size:15px;line-height:1.6;">
      <p>Hello {{.CustomerName}},</p>
      <p>Please find attached invoice <strong>{{.InvoiceNumber}}</strong>.</p>
      {{if .Overdue}}<p style="color:#b91c1c;">This invoice is past its due date.</p>{{end}}
      <table role="presentation" style="width:100%;margin:20px 0;border-top:1px solid #e5e7eb;">
        <tr><td style="padding:8px 0;">Amount due</td><td style="padding:8px 0;text-align:right;font-weight:600;">{{.TotalDue}}</td></tr>
        {{if .DueDate}}<tr><td style="padding:8px 0;">Due date</td><td style="padding:8px 0;text-align:right;">{{.DueDate}}</td></tr>{{end}}
      </table>
      {{if .Footer}}<p style="font-size:13px;color:#6b7280;">{{.Footer}}</p>{{end}}
    </td></tr>
  </table>
</body>
</html>
`

const notificationTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Verdana,sans-serif;background-color:#f4f5f7;">
  <table role="presentation" style="max-width:560px;margin:32px auto;background:#ffffff;border-radius:8px;">
    <tr><td style="padding:28px;color:#374151;font-size:15px;line-height:1.6;">
      <h2 style="margin:0 0 12px 0;font-size:18px;color:#111827;">{{.Title}}</h2>
      <p>{{.Body}}</p>
      <p style="font-size:12px;color:#9ca3af;">Sent by {{.AppName}}</p>
    </td></tr>
  </table>
</body>
</html>
`
