package main

// Built-in message templates, used when config.json doesn't override them.
// Placeholders: {{name}} {{email}} {{subject}} {{message}} {{timestamp}}
// {{timestamp_fmt}} {{ip}}

const (
	defaultDiscordTemplate = `📩 **New contact form submission**

**Name:** {{name}}
**Email:** {{email}}
**Subject:** {{subject}}

**Message:**
{{message}}

🕒 **Received:** {{timestamp_fmt}}
🧭 **IP:** {{ip}}`

	defaultTelegramTemplate = `📩 New contact form submission
Name: {{name}}
Email: {{email}}
Subject: {{subject}}

Message:
{{message}}

Received: {{timestamp_fmt}}
IP: {{ip}}`

	defaultEmailSubjectTemplate = "New contact: {{name}} ({{subject}})"

	defaultEmailTextTemplate = `New contact form submission
Name: {{name}}
Email: {{email}}
Subject: {{subject}}

Message:
{{message}}

Received: {{timestamp_fmt}}
IP: {{ip}}`

	defaultEmailHTMLTemplate = "<div style='font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;color:#0b1220'>" +
		"<h2 style='margin:0 0 8px'>New contact form submission</h2>" +
		"<p style='margin:4px 0'><strong>Name:</strong> {{name}}</p>" +
		"<p style='margin:4px 0'><strong>Email:</strong> {{email}}</p>" +
		"<p style='margin:4px 0'><strong>Subject:</strong> {{subject}}</p>" +
		"<pre style='white-space:pre-wrap;background:#f6f8fa;padding:12px;border-radius:8px;border:1px solid #e5e7eb'>{{message}}</pre>" +
		"<p style='margin-top:10px;color:#64748b'>Received: {{timestamp_fmt}} • IP: {{ip}}</p></div>"

	defaultAckSubjectTemplate = "Thanks — I received your message"

	defaultAckTextTemplate = `Hi {{name}},

Thanks for your message about {{subject}}.
I'll get back to you soon.

— Kevin`

	defaultAckHTMLTemplate = "<div style='font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;color:#0b1220'>" +
		"<p>Hi {{name}},</p>" +
		"<p>Thanks for your message about <strong>{{subject}}</strong>.</p>" +
		"<p>I'll get back to you soon.</p>" +
		"<p>— Kevin</p></div>"
)
