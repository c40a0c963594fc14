package web

import "html/template"

// indexPage is the single interactive page: provider settings, content
// ingestion (upload or URL), a preview of the current session content,
// and the analysis query form.
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>数据分析智能体</title>
<style>
  body { font-family: sans-serif; max-width: 960px; margin: 24px auto; color: #1f2d27; }
  h1 { color: #2c6e49; }
  fieldset { border: 1px solid #d9d9d9; border-radius: 8px; margin-bottom: 16px; padding: 12px; }
  legend { font-weight: bold; color: #2c6e49; }
  .error { background: #fdecea; border-left: 4px solid #c0392b; padding: 8px 12px; margin-bottom: 16px; }
  .notice { background: #e6f7ff; border-left: 4px solid #2c6e49; padding: 8px 12px; margin-bottom: 16px; }
  textarea { width: 100%; border-radius: 8px; }
  button { background: #2c6e49; color: white; border: none; border-radius: 8px; padding: 8px 20px; }
  table.result-table { border-collapse: collapse; }
  table.result-table th, table.result-table td { border: 1px solid #ccc; padding: 4px 10px; }
  td.max-cell { background: #d8f3dc; }
  pre.preview { background: #f8f9fa; padding: 12px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>数据分析智能体</h1>

{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}

<form method="post" action="/analyze">
<fieldset>
<legend>模型设置</legend>
  <label>服务提供商：
    <select name="provider">
      {{range .Providers}}<option value="{{.Name}}">{{.Name}}</option>{{end}}
    </select>
  </label>
  <label>模型：
    <select name="model">
      {{range .Providers}}<optgroup label="{{.Name}}">
        {{range .Models}}<option value="{{.}}">{{.}}</option>{{end}}
      </optgroup>{{end}}
    </select>
  </label>
  <label>API key：<input type="password" name="api_key"></label>
</fieldset>

<fieldset>
<legend>数据分析请求</legend>
<textarea name="query" rows="5" placeholder="例如：请分析销售额最高的产品类别"></textarea>
<button type="submit" {{if not .HasContent}}disabled{{end}}>开始分析</button>
</fieldset>
</form>

<fieldset>
<legend>上传文件</legend>
<form method="post" action="/upload" enctype="multipart/form-data">
  <select name="file_type">
    <option value="xlsx">Excel</option>
    <option value="csv">CSV</option>
    <option value="docx">Word</option>
    <option value="html">HTML</option>
    <option value="pdf">PDF</option>
  </select>
  <input type="file" name="file">
  <button type="submit">上传</button>
</form>
{{if .SheetNames}}
<form method="post" action="/sheet">
  <label>选择工作表：
    <select name="sheet">
      {{range .SheetNames}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">确定</button>
</form>
{{end}}
</fieldset>

<fieldset>
<legend>输入URL</legend>
<form method="post" action="/fetch">
  <input type="text" name="url" placeholder="example.com/data">
  <button type="submit">获取内容</button>
</form>
</fieldset>

{{if .HasContent}}
<fieldset>
<legend>数据预览（{{.Source}}）</legend>
{{if .PreviewTable}}{{.PreviewTable}}{{else}}<pre class="preview">{{.PreviewText}}</pre>{{end}}
<form method="post" action="/reset"><button type="submit">清除内容</button></form>
</fieldset>
{{end}}

</body>
</html>`))

// resultsHead opens the streamed results page; the answer section is
// updated in place while tokens arrive.
var resultsHead = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>数据分析智能体</title>
<style>
  body { font-family: sans-serif; max-width: 960px; margin: 24px auto; color: #1f2d27; }
  h2 { color: #2c6e49; }
  .card { background: #f8f9fa; border-left: 4px solid #4c956c; border-radius: 8px; padding: 16px; }
  table.result-table { border-collapse: collapse; }
  table.result-table th, table.result-table td { border: 1px solid #ccc; padding: 4px 10px; }
  td.max-cell { background: #d8f3dc; }
  iframe.chart { width: 100%; height: 520px; border: none; }
</style>
</head>
<body>
<p><a href="/">← 返回</a></p>
`))
