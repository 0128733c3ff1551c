package web

// PlaygroundHTML is the complete playground single-page application.
// {{TITLE}} is replaced at startup by PlaygroundHandler.
const PlaygroundHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{TITLE}}</title>
<style>
:root {
  --bg-primary: #09090b;
  --bg-secondary: #111113;
  --bg-surface: #1b1b1f;
  --text-primary: #f4f4f5;
  --text-secondary: #8e8e96;
  --accent: #6366f1;
  --accent-hover: #818cf8;
  --danger: #f87171;
  --border: #27272a;
  --sidebar-width: 320px;
}
*, *::before, *::after { margin: 0; padding: 0; box-sizing: border-box; }
html, body {
  height: 100%;
  background: var(--bg-primary);
  color: var(--text-primary);
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif;
  overflow: hidden;
}
button { font: inherit; cursor: pointer; border: none; background: none; color: inherit; }
input, textarea { font: inherit; color: inherit; }

.layout { display: grid; grid-template-columns: var(--sidebar-width) 1fr; height: 100vh; }

/* Sidebar */
.sidebar {
  background: var(--bg-secondary);
  border-right: 1px solid var(--border);
  display: flex; flex-direction: column; overflow: hidden;
}
.sidebar-header {
  padding: 14px 16px; border-bottom: 1px solid var(--border);
  display: flex; align-items: center; justify-content: space-between;
}
.sidebar-header h1 { font-size: 15px; font-weight: 700; }
.btn-small {
  font-size: 11px; font-weight: 600; padding: 5px 10px; border-radius: 6px;
  background: var(--bg-surface); border: 1px solid var(--border);
}
.btn-small:hover { border-color: var(--accent); }
.projects { max-height: 140px; overflow-y: auto; border-bottom: 1px solid var(--border); }
.project-row {
  width: 100%; text-align: left; padding: 8px 16px; font-size: 12px;
  display: flex; justify-content: space-between; gap: 8px;
  color: var(--text-secondary);
}
.project-row.active { color: var(--text-primary); background: var(--bg-surface); }
.project-row:hover { background: var(--bg-surface); }
.project-row .vcount { flex-shrink: 0; }
.messages { flex: 1; overflow-y: auto; padding: 12px 16px; display: flex; flex-direction: column; gap: 10px; }
.msg { max-width: 90%; padding: 8px 12px; border-radius: 12px; font-size: 13px; line-height: 1.45; white-space: pre-wrap; }
.msg.user { align-self: flex-end; background: var(--accent); color: #fff; border-bottom-right-radius: 4px; }
.msg.assistant { align-self: flex-start; background: var(--bg-surface); border-bottom-left-radius: 4px; }
.msg img { max-width: 100%; border-radius: 8px; margin-top: 6px; display: block; }
.versions { border-top: 1px solid var(--border); max-height: 120px; overflow-y: auto; }
.version-row {
  width: 100%; text-align: left; padding: 6px 16px; font-size: 12px; color: var(--text-secondary);
  overflow: hidden; text-overflow: ellipsis; white-space: nowrap;
}
.version-row.active { color: var(--accent-hover); }
.version-row:hover { background: var(--bg-surface); }
.suggestions { padding: 8px 16px 0; display: flex; flex-wrap: wrap; gap: 6px; }
.chip {
  font-size: 11px; padding: 4px 10px; border-radius: 999px;
  border: 1px solid var(--border); color: var(--text-secondary);
}
.chip:hover { border-color: var(--accent); color: var(--text-primary); }
.composer { padding: 12px 16px 16px; display: flex; flex-direction: column; gap: 8px; }
.composer textarea {
  width: 100%; resize: none; background: var(--bg-surface); border: 1px solid var(--border);
  border-radius: 10px; padding: 10px 12px; font-size: 13px; min-height: 64px; outline: none;
}
.composer textarea:focus { border-color: var(--accent); }
.composer input[type=url] {
  width: 100%; background: var(--bg-surface); border: 1px solid var(--border);
  border-radius: 8px; padding: 6px 10px; font-size: 12px; outline: none;
}
.composer-row { display: flex; align-items: center; gap: 8px; }
.composer-row .spacer { flex: 1; }
#attach-name { font-size: 11px; color: var(--text-secondary); overflow: hidden; text-overflow: ellipsis; }
.btn-send {
  background: var(--accent); color: #fff; font-weight: 600; font-size: 13px;
  padding: 7px 18px; border-radius: 8px;
}
.btn-send:disabled { opacity: .5; cursor: default; }
.btn-send:hover:not(:disabled) { background: var(--accent-hover); }

/* Main area */
.main { display: flex; flex-direction: column; min-width: 0; }
.toolbar {
  height: 52px; border-bottom: 1px solid var(--border); display: flex; align-items: center;
  padding: 0 16px; gap: 10px; flex-shrink: 0; background: var(--bg-secondary);
}
.seg { display: flex; background: var(--bg-surface); border-radius: 8px; padding: 3px; gap: 2px; }
.seg button { font-size: 12px; font-weight: 600; padding: 4px 12px; border-radius: 6px; color: var(--text-secondary); }
.seg button.active { background: var(--bg-primary); color: var(--text-primary); }
.toolbar .spacer { flex: 1; }
.stage { flex: 1; position: relative; overflow: auto; display: flex; align-items: center; justify-content: center; padding: 20px; background: var(--bg-primary); }
.frame-shell {
  width: 100%; height: 100%; max-height: 95vh; background: #fff; border-radius: 12px;
  border: 1px solid var(--border); overflow: hidden; display: flex; flex-direction: column;
  transition: width .3s cubic-bezier(.4,0,.2,1);
}
.frame-chrome { height: 22px; background: #f4f4f5; display: flex; align-items: center; gap: 5px; padding: 0 10px; flex-shrink: 0; }
.frame-chrome span { width: 8px; height: 8px; border-radius: 50%; background: #d4d4d8; }
#preview-frame { flex: 1; width: 100%; border: none; background: #fff; }
#code-view {
  display: none; width: 100%; height: 100%; overflow: auto; background: var(--bg-secondary);
  border-radius: 12px; border: 1px solid var(--border);
}
#code-view pre { padding: 20px; font: 12px/1.6 ui-monospace, SFMono-Regular, Menlo, monospace; color: var(--text-primary); }
.empty-state { text-align: center; color: var(--text-secondary); font-size: 13px; }
.empty-state h2 { color: var(--text-primary); font-size: 18px; margin-bottom: 6px; }

/* Overlay */
.overlay {
  position: absolute; inset: 0; display: none; align-items: center; justify-content: center;
  background: rgba(9,9,11,.65); backdrop-filter: blur(6px); z-index: 40;
}
.overlay.visible { display: flex; }
.overlay-card {
  background: var(--bg-secondary); border: 1px solid var(--border); border-radius: 16px;
  padding: 32px 40px; text-align: center; display: flex; flex-direction: column; align-items: center; gap: 16px;
}
.spinner {
  width: 44px; height: 44px; border-radius: 50%;
  border: 3px solid rgba(99,102,241,.25); border-top-color: var(--accent);
  animation: spin 1s linear infinite;
}
@keyframes spin { to { transform: rotate(360deg); } }
#overlay-step { font-size: 13px; color: var(--text-secondary); }
#error-banner {
  display: none; padding: 8px 16px; background: rgba(248,113,113,.12); color: var(--danger);
  font-size: 12px; border-bottom: 1px solid var(--border);
}

/* Modal */
.modal-backdrop {
  position: fixed; inset: 0; display: none; align-items: center; justify-content: center;
  background: rgba(0,0,0,.6); z-index: 50;
}
.modal-backdrop.visible { display: flex; }
.modal {
  width: 380px; background: var(--bg-secondary); border: 1px solid var(--border);
  border-radius: 14px; padding: 20px; display: flex; flex-direction: column; gap: 10px;
}
.modal h2 { font-size: 15px; }
.modal label { font-size: 11px; color: var(--text-secondary); }
.modal input, .modal select {
  width: 100%; background: var(--bg-surface); border: 1px solid var(--border); border-radius: 8px;
  padding: 7px 10px; font-size: 13px; outline: none; color: var(--text-primary);
}
.modal-actions { display: flex; justify-content: flex-end; gap: 8px; margin-top: 6px; }
</style>
</head>
<body>
<div class="layout">
  <aside class="sidebar">
    <div class="sidebar-header">
      <h1>{{TITLE}}</h1>
      <button class="btn-small" id="btn-new-project">New project</button>
    </div>
    <div class="projects" id="project-list"></div>
    <div class="messages" id="message-list"></div>
    <div class="suggestions" id="suggestion-list"></div>
    <div class="versions" id="version-list"></div>
    <div class="composer">
      <input type="url" id="reference-url" placeholder="Reference URL (optional)">
      <textarea id="prompt-input" placeholder="Describe the component you want..."></textarea>
      <div class="composer-row">
        <button class="btn-small" id="btn-attach">Attach image</button>
        <input type="file" id="image-input" accept="image/png,image/jpeg" hidden>
        <span id="attach-name"></span>
        <div class="spacer"></div>
        <button class="btn-send" id="btn-send">Generate</button>
      </div>
    </div>
  </aside>

  <main class="main">
    <div class="toolbar">
      <div class="seg" id="view-seg">
        <button data-view="preview" class="active">Preview</button>
        <button data-view="code">Code</button>
      </div>
      <div class="seg" id="device-seg">
        <button data-device="DESKTOP" class="active">Desktop</button>
        <button data-device="TABLET">Tablet</button>
        <button data-device="MOBILE">Mobile</button>
      </div>
      <div class="spacer"></div>
      <button class="btn-small" id="btn-png">PNG</button>
      <button class="btn-small" id="btn-jpeg">JPEG</button>
      <button class="btn-small" id="btn-share">Share</button>
      <button class="btn-small" id="btn-github">GitHub</button>
      <button class="btn-send" id="btn-deploy">Deploy</button>
    </div>
    <div id="error-banner"></div>
    <div class="stage">
      <div class="empty-state" id="empty-state">
        <h2>Design Playground</h2>
        <p>Describe a component to get started.</p>
      </div>
      <div class="frame-shell" id="frame-shell" style="display:none">
        <div class="frame-chrome"><span></span><span></span><span></span></div>
        <iframe id="preview-frame" title="Preview" sandbox="allow-scripts allow-modals"></iframe>
      </div>
      <div id="code-view"><pre id="code-pre"></pre></div>
      <div class="overlay" id="overlay">
        <div class="overlay-card">
          <div class="spinner"></div>
          <div>
            <p id="overlay-title" style="font-weight:700"></p>
            <p id="overlay-step"></p>
          </div>
        </div>
      </div>
    </div>
  </main>
</div>

<div class="modal-backdrop" id="github-modal">
  <div class="modal">
    <h2>GitHub export</h2>
    <label>Personal access token</label>
    <input id="gh-token" type="password" placeholder="unchanged if empty">
    <label>Owner</label>
    <input id="gh-owner">
    <label>Repository</label>
    <input id="gh-repo" list="gh-repo-options">
    <datalist id="gh-repo-options"></datalist>
    <label>Branch</label>
    <input id="gh-branch" placeholder="main">
    <label>File path</label>
    <input id="gh-path" placeholder="components/GeneratedUI.tsx">
    <label>Commit message</label>
    <input id="gh-message">
    <div class="modal-actions">
      <button class="btn-small" id="gh-cancel">Cancel</button>
      <button class="btn-send" id="gh-save">Save</button>
    </div>
  </div>
</div>

<script>
(() => {
  const $ = (id) => document.getElementById(id);

  let state = null;
  let viewMode = 'preview';
  let renderedVersion = null;
  let renderedProject = null;
  let attachedImage = '';
  let pollTimer = null;

  const api = async (method, path, body) => {
    const res = await fetch(path, {
      method,
      headers: body ? { 'Content-Type': 'application/json' } : undefined,
      body: body ? JSON.stringify(body) : undefined,
    });
    let data = null;
    try { data = await res.json(); } catch (_) {}
    if (!res.ok) throw new Error((data && data.error) || ('HTTP ' + res.status));
    return data;
  };

  const currentComponent = () => {
    const p = state && state.project;
    if (!p || p.current_index < 0 || !p.history) return null;
    return p.history[p.current_index] || null;
  };

  const busy = () => state && (state.status === 'GENERATING' || state.status === 'EXPORTING');

  function render() {
    if (!state) return;

    const overlay = $('overlay');
    overlay.classList.toggle('visible', busy());
    if (busy()) {
      $('overlay-title').textContent = state.status === 'EXPORTING' ? 'Cloud Sync' : 'Generating';
      $('overlay-step').textContent = state.progress_label || 'Working...';
    }
    $('btn-send').disabled = busy();

    const banner = $('error-banner');
    if (state.status === 'ERROR' && state.last_error) {
      banner.textContent = state.last_error;
      banner.style.display = 'block';
    } else {
      banner.style.display = 'none';
    }

    // Projects
    const projects = $('project-list');
    projects.innerHTML = '';
    for (const p of state.projects || []) {
      const row = document.createElement('button');
      row.className = 'project-row' + (p.id === state.active_project_id ? ' active' : '');
      row.innerHTML = '<span></span><span class="vcount"></span>';
      row.firstChild.textContent = p.name;
      row.lastChild.textContent = 'v' + p.versions;
      row.onclick = () => api('POST', '/api/projects/' + p.id + '/select').then(refresh);
      projects.appendChild(row);
    }

    // Messages
    const msgs = $('message-list');
    msgs.innerHTML = '';
    const project = state.project;
    for (const m of (project && project.messages) || []) {
      const div = document.createElement('div');
      div.className = 'msg ' + m.role;
      div.textContent = m.content;
      if (m.image) {
        const img = document.createElement('img');
        img.src = m.image.startsWith('data:') ? m.image : 'data:image/png;base64,' + m.image;
        div.appendChild(img);
      }
      msgs.appendChild(div);
    }
    msgs.scrollTop = msgs.scrollHeight;

    // Suggestions
    const sugg = $('suggestion-list');
    sugg.innerHTML = '';
    for (const text of state.suggestions || []) {
      const chip = document.createElement('button');
      chip.className = 'chip';
      chip.textContent = text;
      chip.onclick = () => { $('prompt-input').value = text; $('prompt-input').focus(); };
      sugg.appendChild(chip);
    }

    // Versions
    const versions = $('version-list');
    versions.innerHTML = '';
    ((project && project.history) || []).forEach((c, i) => {
      const row = document.createElement('button');
      row.className = 'version-row' + (i === project.current_index ? ' active' : '');
      row.textContent = 'v' + c.version + '  ' + c.prompt;
      row.onclick = () => api('POST', '/api/versions/' + i + '/select').then(refresh);
      versions.appendChild(row);
    });

    // Preview / code
    const comp = currentComponent();
    $('empty-state').style.display = comp ? 'none' : 'block';
    $('frame-shell').style.display = comp && viewMode === 'preview' ? 'flex' : 'none';
    $('code-view').style.display = comp && viewMode === 'code' ? 'block' : 'none';
    if (comp) {
      const key = state.active_project_id + ':' + comp.id;
      if (key !== renderedVersion || renderedProject !== state.active_project_id) {
        renderedVersion = key;
        renderedProject = state.active_project_id;
        $('preview-frame').src = '/api/preview?version=' + comp.version + '&t=' + Date.now();
      }
      $('code-pre').textContent = comp.code;
    } else {
      renderedVersion = null;
      $('preview-frame').removeAttribute('src');
    }
  }

  async function refresh() {
    try {
      state = await api('GET', '/api/state');
      render();
    } catch (err) {
      console.error('state refresh failed', err);
    }
    clearTimeout(pollTimer);
    pollTimer = setTimeout(refresh, busy() ? 800 : 5000);
  }

  async function send() {
    const text = $('prompt-input').value.trim();
    if (!text || busy()) return;
    const body = { text };
    if (attachedImage) body.image = attachedImage;
    const ref = $('reference-url').value.trim();
    if (ref) body.reference_url = ref;

    $('prompt-input').value = '';
    attachedImage = '';
    $('attach-name').textContent = '';
    try {
      await api('POST', '/api/messages', body);
    } catch (err) {
      console.error('generation failed', err);
    }
    refresh();
  }

  // Screenshot export: the host asks itself, then relays into the sandbox.
  window.addEventListener('message', (e) => {
    if (e.data && e.data.type === '{{MSG_EXPORT}}') {
      const frame = $('preview-frame');
      if (frame.contentWindow) {
        frame.contentWindow.postMessage({ type: '{{MSG_CAPTURE}}', format: e.data.format }, '*');
      }
    }
  });
  const exportImage = (format) => window.postMessage({ type: '{{MSG_EXPORT}}', format }, '*');

  // Toolbar
  $('view-seg').addEventListener('click', (e) => {
    if (!e.target.dataset.view) return;
    viewMode = e.target.dataset.view;
    for (const b of $('view-seg').children) b.classList.toggle('active', b === e.target);
    render();
  });
  $('device-seg').addEventListener('click', (e) => {
    const device = e.target.dataset.device;
    if (!device) return;
    for (const b of $('device-seg').children) b.classList.toggle('active', b === e.target);
    const widths = { MOBILE: '{{WIDTH_MOBILE}}', TABLET: '{{WIDTH_TABLET}}', DESKTOP: '{{WIDTH_DESKTOP}}' };
    $('frame-shell').style.width = widths[device];
  });
  $('btn-png').onclick = () => exportImage('{{FORMAT_PNG}}');
  $('btn-jpeg').onclick = () => exportImage('{{FORMAT_JPEG}}');
  $('btn-share').onclick = async () => {
    try {
      const data = await api('GET', '/api/export/share');
      await navigator.clipboard.writeText(data.url);
      $('btn-share').textContent = 'Copied!';
      setTimeout(() => { $('btn-share').textContent = 'Share'; }, 2000);
    } catch (err) { console.error('share failed', err); }
  };
  $('btn-deploy').onclick = async () => {
    try {
      await api('POST', '/api/export/github');
    } catch (err) {
      if (String(err.message).includes('not configured')) openGithubModal();
      else console.error('export failed', err);
    }
    refresh();
  };

  // GitHub modal
  async function openGithubModal() {
    try {
      const cfg = await api('GET', '/api/config');
      $('gh-owner').value = cfg.owner || '';
      $('gh-repo').value = cfg.repo || '';
      $('gh-branch').value = cfg.branch || '';
      $('gh-path').value = cfg.path || '';
      $('gh-message').value = cfg.commit_message || '';
      $('gh-token').value = '';
      const repos = await api('GET', '/api/github/repos');
      $('gh-repo-options').innerHTML = '';
      for (const r of repos) {
        const opt = document.createElement('option');
        opt.value = r.name;
        $('gh-repo-options').appendChild(opt);
      }
    } catch (err) { console.error(err); }
    $('github-modal').classList.add('visible');
  }
  $('btn-github').onclick = openGithubModal;
  $('gh-cancel').onclick = () => $('github-modal').classList.remove('visible');
  $('gh-save').onclick = async () => {
    try {
      await api('PUT', '/api/config', {
        token: $('gh-token').value,
        owner: $('gh-owner').value,
        repo: $('gh-repo').value,
        branch: $('gh-branch').value,
        path: $('gh-path').value,
        commit_message: $('gh-message').value,
      });
      $('github-modal').classList.remove('visible');
    } catch (err) { console.error('save config failed', err); }
  };

  // Composer
  $('btn-send').onclick = send;
  $('prompt-input').addEventListener('keydown', (e) => {
    if (e.key === 'Enter' && !e.shiftKey) { e.preventDefault(); send(); }
  });
  $('btn-attach').onclick = () => $('image-input').click();
  $('image-input').addEventListener('change', () => {
    const file = $('image-input').files[0];
    if (!file) return;
    const reader = new FileReader();
    reader.onload = () => {
      attachedImage = reader.result;
      $('attach-name').textContent = file.name;
    };
    reader.readAsDataURL(file);
  });
  $('btn-new-project').onclick = () => api('POST', '/api/projects').then(refresh);

  // A shared link carries ?code=&prompt=; hand them to the server, which
  // decodes the component into a new project, then clean up the URL.
  async function importShared() {
    const params = new URLSearchParams(location.search);
    const code = params.get('code');
    if (!code) return;
    try {
      await api('POST', '/api/share/import', { code, prompt: params.get('prompt') || '' });
    } catch (err) {
      console.error('share import failed', err);
    }
    history.replaceState(null, '', location.pathname);
  }

  importShared().then(refresh);
})();
</script>
</body>
</html>
`
