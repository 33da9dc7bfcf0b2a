package email

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`
New Support Ticket #{{.ID}}
================================

Created: {{.Created}}
Priority: {{.PriorityUpper}}
Sentiment: {{.Sentiment}} (Score: {{.Score}})

PROBLEM SUMMARY
---------------
{{.Problem}}

CONVERSATION SUMMARY
--------------------
{{or .Conversation "N/A"}}

ADVICE GIVEN
------------
{{or .Advice "N/A"}}

---
This ticket was automatically created by the support chatbot.
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #5a67d8; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        .section { background: white; padding: 15px; margin: 10px 0; border-radius: 6px; border-left: 4px solid #667eea; }
        .priority { display: inline-block; padding: 4px 12px; border-radius: 20px; color: white; font-weight: bold; }
        .label { font-weight: bold; color: #495057; }
        .footer { text-align: center; color: #6c757d; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1 style="margin: 0;">Support Ticket #{{.ID}}</h1>
        </div>
        <div class="content">
            <p>
                <span class="priority" style="background: {{.Color}};">{{.PriorityUpper}}</span>
                <span style="margin-left: 10px;">Created: {{.Created}}</span>
            </p>
            <p><span class="label">Sentiment:</span> {{.Sentiment}} ({{.Score}})</p>
            <div class="section">
                <h3 style="margin-top: 0;">Problem Summary</h3>
                <p>{{.Problem}}</p>
            </div>
            <div class="section">
                <h3 style="margin-top: 0;">Conversation Summary</h3>
                <p>{{or .Conversation "No summary available"}}</p>
            </div>
            <div class="section">
                <h3 style="margin-top: 0;">Advice Given</h3>
                <p>{{or .Advice "No advice recorded"}}</p>
            </div>
        </div>
        <div class="footer">
            <p>This ticket was automatically created by the support chatbot.</p>
        </div>
    </div>
</body>
</html>
`))
