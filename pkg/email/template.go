package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template 邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从 HTML 字符串创建模板
func NewTemplate(htmlContent string) (*Template, error) {
	tmpl, err := template.New("email").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("解析邮件模板失败: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustTemplate 与 NewTemplate 相同，解析失败直接 panic，用于包级模板变量
func MustTemplate(htmlContent string) *Template {
	t, err := NewTemplate(htmlContent)
	if err != nil {
		panic(err)
	}
	return t
}

// Render 渲染模板
func (t *Template) Render(data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return buf.String(), nil
}

// SendWithTemplate 使用模板发送 HTML 邮件
func (c *Client) SendWithTemplate(to string, subject string, tmpl *Template, data interface{}) error {
	body, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	return c.SendHTML(to, subject, body)
}
