package handlers

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>FileDeck - {{.}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0;
            padding: 20px;
            background-color: #f5f5f7;
            color: #1d1d1f;
        }
        body.theme-dark {
            background-color: #1e1e1e;
            color: #e5e5e5;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .theme-dark .container { background: #2b2b2b; }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 20px 30px;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
            font-weight: 600;
        }
        .breadcrumb {
            background: #f8f9fa;
            padding: 15px 30px;
            border-bottom: 1px solid #e9ecef;
        }
        .theme-dark .breadcrumb { background: #333; border-color: #444; }
        .breadcrumb a, .file-name a, .actions a {
            color: #0066cc;
            text-decoration: none;
            margin-right: 5px;
        }
        .breadcrumb a:hover, .file-name a:hover { text-decoration: underline; }
        .toolbar {
            display: flex;
            flex-wrap: wrap;
            gap: 12px;
            padding: 15px 30px;
            border-bottom: 1px solid #e9ecef;
        }
        .toolbar form { display: flex; gap: 6px; align-items: center; }
        .file-item {
            display: flex;
            align-items: center;
            padding: 10px 30px;
            border-bottom: 1px solid #f0f0f0;
        }
        .file-item:hover { background-color: #f8f9fa; }
        .theme-dark .file-item:hover { background-color: #333; }
        .file-icon { width: 32px; font-size: 20px; }
        .file-name { flex: 1; }
        .file-name.directory a { font-weight: 600; }
        .file-size { width: 100px; color: #666; font-size: 14px; text-align: right; }
        .actions { display: flex; gap: 6px; margin-left: 16px; }
        .actions form { margin: 0; }
        .thumb { max-width: 48px; max-height: 48px; margin-right: 8px; vertical-align: middle; }
        .empty { padding: 40px; text-align: center; color: #666; }
        .panel { padding: 20px 30px; }
        .panel textarea { width: 100%; min-height: 60vh; font-family: monospace; box-sizing: border-box; }
        .markdown { border-top: 1px solid #e9ecef; margin-top: 20px; padding-top: 10px; }
        .viewer img { max-width: 100%; }
        .filters button { margin-right: 6px; }
        .info dt { font-weight: 600; margin-top: 8px; }
        .info dd { margin-left: 0; color: #666; }
        .error h2 { color: #dc2626; }
        .icon-directory::before { content: "📁"; }
        .icon-gif::before, .icon-png::before, .icon-jpg::before, .icon-ico::before { content: "🖼️"; }
        .icon-mp3::before { content: "🎵"; }
        .icon-mp4::before { content: "🎬"; }
        .icon-txt::before { content: "📝"; }
        .icon-unknown::before { content: "📄"; }
    </style>
</head>
{{end}}

{{define "crumbs"}}
        <div class="breadcrumb">
            {{range .}}<a href="{{listingURL .Link}}">{{.Name}}</a> / {{end}}
        </div>
{{end}}

{{define "filemanager"}}{{template "head" .Path}}
<body>
    <div class="container">
        <div class="header">
            <h1>📁 {{.Path}}</h1>
        </div>
        {{template "crumbs" .Breadcrumbs}}
        <div class="toolbar">
            <form action="/newDir" method="post">
                <input type="hidden" name="currentDir" value="{{.Path}}">
                <input type="text" name="dirName" placeholder="New folder" required>
                <button type="submit">Create folder</button>
            </form>
            <form action="/newFile" method="post">
                <input type="hidden" name="currentDir" value="{{.Path}}">
                <input type="text" name="fileName" placeholder="New file" required>
                <select name="ext">
                    <option value="">(keep)</option>
                    {{range .Extensions}}<option value="{{.}}">{{.}}</option>{{end}}
                </select>
                <button type="submit">Create file</button>
            </form>
            <form action="/upload" method="post" enctype="multipart/form-data">
                <input type="hidden" name="currentDir" value="{{.Path}}">
                <input type="file" name="files" multiple>
                <button type="submit">Upload</button>
            </form>
            {{if not .IsRoot}}
            <form action="/changeDirName" method="post">
                <input type="hidden" name="currentDir" value="{{.Path}}">
                <input type="text" name="dirName" placeholder="Rename folder" required>
                <button type="submit">Rename</button>
            </form>
            <form action="/removeDir" method="post" onsubmit="return confirm('Delete this folder and everything in it?')">
                <input type="hidden" name="dirPath" value="{{.Path}}">
                <button type="submit">Delete folder</button>
            </form>
            {{end}}
        </div>
        <div class="file-list">
            {{if not .IsRoot}}
            <div class="file-item">
                <div class="file-icon icon-directory"></div>
                <div class="file-name directory"><a href="{{listingURL .Parent}}">..</a></div>
            </div>
            {{end}}
            {{range .Directories}}
            <div class="file-item">
                <div class="file-icon icon-directory"></div>
                <div class="file-name directory"><a href="{{listingURL .Link}}">{{.Name}}</a></div>
                <div class="actions">
                    <a href="{{fileURL "info" .Link}}">info</a>
                    <form action="/removeDir" method="post" onsubmit="return confirm('Delete {{.Name}}?')">
                        <input type="hidden" name="dirPath" value="{{.Link}}">
                        <button type="submit">delete</button>
                    </form>
                </div>
            </div>
            {{end}}
            {{range .Files}}
            <div class="file-item">
                <div class="file-icon icon-{{.Icon}}"></div>
                <div class="file-name">
                    {{if eq .Class "image"}}<img class="thumb" src="{{fileURL "previewFile" .Link}}&amp;thumb=48" alt="">{{end}}
                    <a href="{{fileURL "showFile" .Link}}">{{.Name}}</a>
                </div>
                <div class="file-size">{{humanBytes .Size}}</div>
                <div class="actions">
                    <a href="{{fileURL "download" .Link}}">download</a>
                    <a href="{{fileURL "info" .Link}}">info</a>
                    <form action="/removeFile" method="post" onsubmit="return confirm('Delete {{.Name}}?')">
                        <input type="hidden" name="filePath" value="{{.Link}}">
                        <button type="submit">delete</button>
                    </form>
                </div>
            </div>
            {{end}}
            {{if and (not .Directories) (not .Files)}}
            <div class="empty">This folder is empty</div>
            {{end}}
        </div>
    </div>
</body>
</html>
{{end}}

{{define "editor"}}{{template "head" .Name}}
<body class="theme-{{.Preferences.Theme}}">
    <div class="container">
        <div class="header">
            <h1>📝 {{.Name}}</h1>
        </div>
        {{template "crumbs" .Breadcrumbs}}
        <div class="toolbar">
            <form action="/renameFile" method="post">
                <input type="hidden" name="fileLink" value="{{.Link}}">
                <input type="text" name="fileName" value="{{.BaseName}}" required>
                <button type="submit">Rename</button>
            </form>
            <form id="preferences">
                <select name="theme">
                    <option value="light"{{if eq .Preferences.Theme "light"}} selected{{end}}>light</option>
                    <option value="dark"{{if eq .Preferences.Theme "dark"}} selected{{end}}>dark</option>
                </select>
                <input type="number" name="fontSize" min="8" max="72" value="{{.Preferences.FontSize}}">
                <button type="submit">Apply</button>
            </form>
            <a href="{{fileURL "download" .Link}}">download</a>
            <a href="{{listingURL .Dir}}">back</a>
        </div>
        <div class="panel">
            <form action="/editFile" method="post">
                <input type="hidden" name="fileLink" value="{{.Link}}">
                <textarea name="fileContent" style="font-size: {{.Preferences.FontSize}}px">{{.Content}}</textarea>
                <p><button type="submit">Save</button></p>
            </form>
            {{if .Preview}}<div class="markdown">{{.Preview}}</div>{{end}}
        </div>
    </div>
    <script>
        document.getElementById('preferences').addEventListener('submit', function (e) {
            e.preventDefault();
            fetch('/setConfig', { method: 'POST', body: new URLSearchParams(new FormData(e.target)) })
                .then(function (res) { if (res.ok) { window.location.reload(); } });
        });
    </script>
</body>
</html>
{{end}}

{{define "image"}}{{template "head" .Name}}
<body>
    <div class="container">
        <div class="header">
            <h1>🖼️ {{.Name}}</h1>
        </div>
        {{template "crumbs" .Breadcrumbs}}
        <div class="toolbar filters">
            {{range .Filters}}<button type="button" data-filter="{{.}}">{{.}}</button>{{end}}
            <a href="{{fileURL "download" .Link}}">download</a>
            <a href="{{listingURL .Dir}}">back</a>
        </div>
        <div class="panel viewer">
            {{if .Width}}<p>{{.Width}} × {{.Height}} px</p>{{end}}
            <img id="image" src="{{fileURL "previewFile" .Link}}" alt="{{.Name}}">
        </div>
    </div>
    <script>
        var css = { none: 'none', grayscale: 'grayscale(100%)', invert: 'invert(100%)', sepia: 'sepia(100%)' };
        document.querySelectorAll('[data-filter]').forEach(function (b) {
            b.addEventListener('click', function () {
                document.getElementById('image').style.filter = css[b.dataset.filter] || 'none';
            });
        });
    </script>
</body>
</html>
{{end}}

{{define "info"}}{{template "head" .Info.Name}}
<body>
    <div class="container">
        <div class="header">
            <h1>ℹ️ {{.Info.Name}}</h1>
        </div>
        {{template "crumbs" .Breadcrumbs}}
        <div class="panel info">
            <dl>
                <dt>Path</dt><dd>{{.Info.Link}}</dd>
                <dt>Kind</dt><dd>{{.Info.Kind}}</dd>
                <dt>Size</dt><dd>{{humanBytes .Info.Size}}</dd>
                {{if eq .Info.Kind "directory"}}<dt>Items</dt><dd>{{.Info.Items}}</dd>{{end}}
                {{if .Info.MimeType}}<dt>Type</dt><dd>{{.Info.MimeType}}</dd>{{end}}
                <dt>Modified</dt><dd>{{formatTime .Info.ModTime}} ({{humanTime .Info.ModTime}})</dd>
            </dl>
            <a href="{{listingURL .Parent}}">back</a>
        </div>
    </div>
</body>
</html>
{{end}}

{{define "error"}}{{template "head" .Title}}
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
        </div>
        <div class="panel error">
            <h2>{{.Title}}</h2>
            <p>{{.Message}}</p>
            <a href="{{.Back}}">back</a>
        </div>
    </div>
</body>
</html>
{{end}}
`
