package preview

import (
	"strconv"
	"strings"
)

const codePlaceholder = "{{CODE}}"

// baseDocument is previewDocument with the protocol constants resolved, so
// the wire strings in the sandbox script come from protocol.go.
var baseDocument = strings.NewReplacer(
	"{{MSG_CAPTURE}}", string(MsgCaptureScreenshot),
	"{{FORMAT_PNG}}", string(FormatPNG),
	"{{JPEG_QUALITY}}", strconv.FormatFloat(JPEGQuality, 'g', -1, 64),
).Replace(previewDocument)

// Render produces the full sandbox HTML document for a component. The code
// is injected verbatim; it runs inside a sandboxed iframe (allow-scripts
// allow-modals) so it never touches the host origin.
func Render(code string) string {
	return strings.ReplaceAll(baseDocument, codePlaceholder, code)
}

// previewDocument loads the component's runtime from CDNs: Tailwind for
// styling, React 19 UMD plus Babel standalone so generated JSX runs as-is,
// lucide for icons, and html-to-image for in-frame screenshot capture.
const previewDocument = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <script src="https://cdn.tailwindcss.com"></script>
    <script crossorigin src="https://unpkg.com/react@19/umd/react.development.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@19/umd/react-dom.development.js"></script>
    <script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
    <script src="https://unpkg.com/lucide@latest"></script>
    <script src="https://cdn.jsdelivr.net/npm/html-to-image@1.11.11/dist/html-to-image.js"></script>
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap" rel="stylesheet">
    <style>
      body { font-family: 'Inter', sans-serif; margin: 0; padding: 0; min-height: 100vh; background-color: transparent; }
      #error-display { padding: 20px; color: #ef4444; background: #fef2f2; border: 1px solid #fee2e2; border-radius: 8px; margin: 20px; font-family: monospace; }
    </style>
  </head>
  <body>
    <div id="preview-root"></div>
    <div id="error-boundary"></div>

    <script type="text/babel">
      const { useState, useEffect, useMemo, useCallback, useRef } = React;

      const ErrorDisplay = ({ error }) => (
        <div id="error-display">
          <h2 style={{marginTop: 0, fontSize: '1.2rem'}}>Runtime Error</h2>
          <pre style={{whiteSpace: 'pre-wrap', fontSize: '0.85rem'}}>{error.message}</pre>
        </div>
      );

      try {
        {{CODE}}

        const rootElement = document.getElementById('preview-root');
        const root = ReactDOM.createRoot(rootElement);

        if (typeof Component !== 'undefined') {
          root.render(<Component />);
        } else {
          // Fallback: search for the last defined function if 'Component' is missing
          const keys = Object.keys(window);
          let found = false;
          for (let i = keys.length - 1; i >= 0; i--) {
            const val = window[keys[i]];
            if (typeof val === 'function' && val.name && val.name !== 'Component') {
              root.render(React.createElement(val));
              found = true;
              break;
            }
          }
          if (!found) throw new Error("No React component found in generated code.");
        }

        if (window.lucide) {
          window.lucide.createIcons();
        }

        window.addEventListener('message', async (e) => {
          if (e.data.type === '{{MSG_CAPTURE}}') {
            const node = document.getElementById('preview-root');
            if (!node) return;
            try {
              const dataUrl = e.data.format === '{{FORMAT_PNG}}'
                ? await htmlToImage.toPng(node)
                : await htmlToImage.toJpeg(node, { quality: {{JPEG_QUALITY}} });
              const link = document.createElement('a');
              link.download = 'uidraft-export.' + e.data.format;
              link.href = dataUrl;
              link.click();
            } catch (err) {
              console.error("Screenshot failed", err);
            }
          }
        });

      } catch (err) {
        console.error("Preview Render Error:", err);
        const errorRoot = ReactDOM.createRoot(document.getElementById('error-boundary'));
        errorRoot.render(<ErrorDisplay error={err} />);
      }
    </script>
  </body>
</html>
`
